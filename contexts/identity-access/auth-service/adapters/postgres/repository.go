package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"aegis/contexts/identity-access/auth-service/domain/entities"
	domainerrors "aegis/contexts/identity-access/auth-service/domain/errors"
	"aegis/contexts/identity-access/auth-service/ports"
	contractsv1 "aegis/contracts/gen/events/v1"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
	outboxStatusFailed  = "failed"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) FindActiveByUsername(ctx context.Context, username string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("username = ?", strings.TrimSpace(username)).
		Where("deleted = ?", false).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("username = ?", strings.TrimSpace(username)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CreateWithOutbox(ctx context.Context, user entities.User, event ports.RegisteredEvent) error {
	payload, err := marshalRegisteredEnvelope(event)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRow := userModelFromEntity(user)
		if err := tx.Create(&userRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrUsernameTaken
			}
			return err
		}

		for _, role := range user.Roles {
			link := userRoleModel{
				UserID: userRow.UserID,
				RoleID: role.RoleID,
			}
			if err := tx.Create(&link).Error; err != nil {
				if isUniqueViolation(err) {
					continue
				}
				return err
			}
		}

		outboxRow := outboxModel{
			OutboxID:     event.EventID,
			EventType:    contractsv1.EventTypeUserRegistered,
			PartitionKey: event.Username,
			Payload:      payload,
			Status:       outboxStatusPending,
			CreatedAt:    event.OccurredAt.UTC(),
		}
		if err := tx.Create(&outboxRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrRepositoryBroken
			}
			return err
		}
		return nil
	})
}

func (r *Repository) FindByName(ctx context.Context, name entities.RoleName) (entities.Role, error) {
	var row roleModel
	err := r.db.WithContext(ctx).
		Where("name = ?", string(name)).
		Where("active = ?", true).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Role{}, domainerrors.ErrRoleNotFound
		}
		return entities.Role{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListRoles(ctx context.Context) ([]entities.Role, error) {
	var rows []roleModel
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Role, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateRole(ctx context.Context, role entities.Role) error {
	row := roleModel{
		RoleID:      strings.TrimSpace(role.RoleID),
		Name:        string(role.Name),
		Description: strings.TrimSpace(role.Description),
		Active:      role.Active,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRoleAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryBroken
	}
	return nil
}

// MarkOutboxFailed parks the row; sent_at stays NULL because the event was
// never delivered.
func (r *Repository) MarkOutboxFailed(ctx context.Context, outboxID string, _ time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Update("status", outboxStatusFailed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryBroken
	}
	return nil
}

type userModel struct {
	UserID         string      `gorm:"column:user_id;primaryKey"`
	Username       string      `gorm:"column:username"`
	PasswordDigest string      `gorm:"column:password_digest"`
	Email          string      `gorm:"column:email"`
	FullName       string      `gorm:"column:full_name"`
	Deleted        bool        `gorm:"column:deleted"`
	CreatedAt      time.Time   `gorm:"column:created_at"`
	UpdatedAt      time.Time   `gorm:"column:updated_at"`
	Roles          []roleModel `gorm:"many2many:auth_user_roles;foreignKey:UserID;joinForeignKey:user_id;References:RoleID;joinReferences:role_id"`
}

func (userModel) TableName() string {
	return "auth_users"
}

func userModelFromEntity(item entities.User) userModel {
	return userModel{
		UserID:         strings.TrimSpace(item.UserID),
		Username:       strings.TrimSpace(item.Username),
		PasswordDigest: item.PasswordDigest,
		Email:          strings.TrimSpace(item.Email),
		FullName:       strings.TrimSpace(item.FullName),
		Deleted:        item.Deleted,
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
}

func (m userModel) toEntity() entities.User {
	roles := make([]entities.Role, 0, len(m.Roles))
	for _, role := range m.Roles {
		roles = append(roles, role.toEntity())
	}
	return entities.User{
		UserID:         m.UserID,
		Username:       m.Username,
		PasswordDigest: m.PasswordDigest,
		Email:          m.Email,
		FullName:       m.FullName,
		Deleted:        m.Deleted,
		Roles:          roles,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type roleModel struct {
	RoleID      string `gorm:"column:role_id;primaryKey"`
	Name        string `gorm:"column:name"`
	Description string `gorm:"column:description"`
	Active      bool   `gorm:"column:active"`
}

func (roleModel) TableName() string {
	return "auth_roles"
}

func (m roleModel) toEntity() entities.Role {
	return entities.Role{
		RoleID:      m.RoleID,
		Name:        entities.RoleName(m.Name),
		Description: m.Description,
		Active:      m.Active,
	}
}

type userRoleModel struct {
	UserID string `gorm:"column:user_id;primaryKey"`
	RoleID string `gorm:"column:role_id;primaryKey"`
}

func (userRoleModel) TableName() string {
	return "auth_user_roles"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "auth_outbox"
}

func marshalRegisteredEnvelope(event ports.RegisteredEvent) ([]byte, error) {
	data, err := json.Marshal(contractsv1.UserRegistered{
		UserID:    event.UserID,
		Username:  event.Username,
		Email:     event.Email,
		FullName:  event.FullName,
		RoleNames: event.RoleNames,
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(contractsv1.Envelope{
		EventID:          event.EventID,
		EventType:        contractsv1.EventTypeUserRegistered,
		OccurredAt:       event.OccurredAt.UTC(),
		SourceService:    "auth-service",
		SchemaVersion:    1,
		PartitionKeyPath: "username",
		PartitionKey:     event.Username,
		Data:             data,
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
