package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"aegis/contexts/identity-access/user-profile-service/domain/entities"
	domainerrors "aegis/contexts/identity-access/user-profile-service/domain/errors"
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

func (r *Repository) FindActiveByUsername(ctx context.Context, username string) (entities.Profile, error) {
	var row profileModel
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("username = ?", strings.TrimSpace(username)).
		Where("deleted = ?", false).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Profile{}, domainerrors.ErrProfileNotFound
		}
		return entities.Profile{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&profileModel{}).
		Where("username = ?", strings.TrimSpace(username)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]entities.Profile, error) {
	var rows []profileModel
	if err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("deleted = ?", false).
		Order("username ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Profile, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) Create(ctx context.Context, profile entities.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := profileModelFromEntity(profile)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrProfileExists
			}
			return err
		}
		for _, role := range profile.Roles {
			link := profileRoleModel{
				ProfileID: row.ProfileID,
				RoleID:    role.RoleID,
			}
			if err := tx.Create(&link).Error; err != nil {
				if isUniqueViolation(err) {
					continue
				}
				return err
			}
		}
		return nil
	})
}

func (r *Repository) UpdateContact(
	ctx context.Context,
	username string,
	email string,
	fullName string,
	updatedAt time.Time,
) (entities.Profile, error) {
	result := r.db.WithContext(ctx).
		Model(&profileModel{}).
		Where("username = ?", strings.TrimSpace(username)).
		Where("deleted = ?", false).
		Updates(map[string]any{
			"email":      strings.TrimSpace(email),
			"full_name":  strings.TrimSpace(fullName),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return entities.Profile{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.Profile{}, domainerrors.ErrProfileNotFound
	}
	return r.FindActiveByUsername(ctx, username)
}

func (r *Repository) SoftDelete(ctx context.Context, username string, deletedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&profileModel{}).
		Where("username = ?", strings.TrimSpace(username)).
		Where("deleted = ?", false).
		Updates(map[string]any{
			"deleted":    true,
			"updated_at": deletedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProfileNotFound
	}
	return nil
}

func (r *Repository) FindByName(ctx context.Context, name string) (entities.Role, bool, error) {
	var row roleModel
	err := r.db.WithContext(ctx).
		Where("name = ?", strings.TrimSpace(name)).
		Where("active = ?", true).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Role{}, false, nil
		}
		return entities.Role{}, false, err
	}
	return row.toEntity(), true, nil
}

type profileModel struct {
	ProfileID      string      `gorm:"column:profile_id;primaryKey"`
	Username       string      `gorm:"column:username"`
	PasswordDigest string      `gorm:"column:password_digest"`
	Email          string      `gorm:"column:email"`
	FullName       string      `gorm:"column:full_name"`
	Deleted        bool        `gorm:"column:deleted"`
	CreatedAt      time.Time   `gorm:"column:created_at"`
	UpdatedAt      time.Time   `gorm:"column:updated_at"`
	Roles          []roleModel `gorm:"many2many:profile_roles;foreignKey:ProfileID;joinForeignKey:profile_id;References:RoleID;joinReferences:role_id"`
}

func (profileModel) TableName() string {
	return "profiles"
}

func profileModelFromEntity(item entities.Profile) profileModel {
	return profileModel{
		ProfileID:      strings.TrimSpace(item.ProfileID),
		Username:       strings.TrimSpace(item.Username),
		PasswordDigest: item.PasswordDigest,
		Email:          strings.TrimSpace(item.Email),
		FullName:       strings.TrimSpace(item.FullName),
		Deleted:        item.Deleted,
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
}

func (m profileModel) toEntity() entities.Profile {
	roles := make([]entities.Role, 0, len(m.Roles))
	for _, role := range m.Roles {
		roles = append(roles, role.toEntity())
	}
	return entities.Profile{
		ProfileID:      m.ProfileID,
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
	return "profile_role_catalog"
}

func (m roleModel) toEntity() entities.Role {
	return entities.Role{
		RoleID:      m.RoleID,
		Name:        m.Name,
		Description: m.Description,
		Active:      m.Active,
	}
}

type profileRoleModel struct {
	ProfileID string `gorm:"column:profile_id;primaryKey"`
	RoleID    string `gorm:"column:role_id;primaryKey"`
}

func (profileRoleModel) TableName() string {
	return "profile_roles"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
