package application

import (
	"context"
	"errors"
	"testing"

	"aegis/contexts/identity-access/user-profile-service/adapters/memory"
	"aegis/contexts/identity-access/user-profile-service/domain/entities"
	domainerrors "aegis/contexts/identity-access/user-profile-service/domain/errors"
)

func newService(store *memory.Store) Service {
	return Service{
		Profiles:    store,
		Roles:       store,
		Clock:       store,
		IDGenerator: store,
	}
}

func TestReplicateCreatesShadowProfile(t *testing.T) {
	store := memory.NewStore()
	service := newService(store)

	err := service.Replicate(context.Background(), ReplicateCommand{
		UserID:    "user-1",
		Username:  "alice",
		Email:     "alice@example.com",
		FullName:  "Alice Liddell",
		RoleNames: []string{"USER"},
	})
	if err != nil {
		t.Fatalf("replicate failed: %v", err)
	}

	profile, err := service.GetProfile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if profile.PasswordDigest != entities.PlaceholderDigest {
		t.Fatalf("expected placeholder digest, got %q", profile.PasswordDigest)
	}
	if len(profile.Roles) != 1 || profile.Roles[0].Name != "USER" {
		t.Fatalf("unexpected roles %v", profile.RoleNames())
	}
}

func TestReplicateIsIdempotentOnUsername(t *testing.T) {
	store := memory.NewStore()
	service := newService(store)

	cmd := ReplicateCommand{
		UserID:    "user-2",
		Username:  "bob",
		Email:     "bob@example.com",
		FullName:  "Bob Builder",
		RoleNames: []string{"USER"},
	}
	if err := service.Replicate(context.Background(), cmd); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}

	cmd.Email = "changed@example.com"
	if err := service.Replicate(context.Background(), cmd); err != nil {
		t.Fatalf("redelivery must be a no-op, got %v", err)
	}

	profile, err := service.GetProfile(context.Background(), "bob")
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if profile.Email != "bob@example.com" {
		t.Fatalf("redelivery must not overwrite the first write, got %s", profile.Email)
	}

	profiles, err := service.ListProfiles(context.Background())
	if err != nil {
		t.Fatalf("list profiles failed: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected one profile, got %d", len(profiles))
	}
}

func TestReplicateSkipsUnknownRoles(t *testing.T) {
	store := memory.NewStore()
	service := newService(store)

	err := service.Replicate(context.Background(), ReplicateCommand{
		UserID:    "user-3",
		Username:  "carol",
		Email:     "carol@example.com",
		FullName:  "Carol Danvers",
		RoleNames: []string{"WIZARD", "MODERATOR", "GHOST"},
	})
	if err != nil {
		t.Fatalf("replicate failed: %v", err)
	}

	profile, err := service.GetProfile(context.Background(), "carol")
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if len(profile.Roles) != 1 || profile.Roles[0].Name != "MODERATOR" {
		t.Fatalf("expected only the known role, got %v", profile.RoleNames())
	}
}

func TestReplicateAttachesRepeatedRoleOnce(t *testing.T) {
	store := memory.NewStore()
	service := newService(store)

	err := service.Replicate(context.Background(), ReplicateCommand{
		UserID:    "user-7",
		Username:  "heidi",
		Email:     "heidi@example.com",
		FullName:  "Heidi Klum",
		RoleNames: []string{"USER", "MODERATOR", "USER", " USER ", "MODERATOR"},
	})
	if err != nil {
		t.Fatalf("replicate failed: %v", err)
	}

	profile, err := service.GetProfile(context.Background(), "heidi")
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if len(profile.Roles) != 2 {
		t.Fatalf("expected each role attached once, got %v", profile.RoleNames())
	}
	seen := map[string]int{}
	for _, role := range profile.Roles {
		seen[role.Name]++
	}
	if seen["USER"] != 1 || seen["MODERATOR"] != 1 {
		t.Fatalf("expected USER and MODERATOR once each, got %v", profile.RoleNames())
	}
}

func TestReplicateAllRolesUnknown(t *testing.T) {
	store := memory.NewStore()
	service := newService(store)

	err := service.Replicate(context.Background(), ReplicateCommand{
		UserID:    "user-4",
		Username:  "dave",
		Email:     "dave@example.com",
		FullName:  "Dave Grohl",
		RoleNames: []string{"UNKNOWN"},
	})
	if err != nil {
		t.Fatalf("unknown roles must not fail the event: %v", err)
	}

	profile, err := service.GetProfile(context.Background(), "dave")
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if len(profile.Roles) != 0 {
		t.Fatalf("expected no roles, got %v", profile.RoleNames())
	}
}

func TestUpdateContact(t *testing.T) {
	store := memory.NewStore()
	service := newService(store)

	if err := service.Replicate(context.Background(), ReplicateCommand{
		UserID:    "user-5",
		Username:  "erin",
		Email:     "erin@example.com",
		FullName:  "Erin Hunter",
		RoleNames: []string{"USER"},
	}); err != nil {
		t.Fatalf("replicate failed: %v", err)
	}

	updated, err := service.UpdateContact(context.Background(), UpdateContactCommand{
		Username: "erin",
		Email:    "erin.h@example.com",
		FullName: "Erin B. Hunter",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Email != "erin.h@example.com" || updated.FullName != "Erin B. Hunter" {
		t.Fatalf("unexpected updated profile %+v", updated)
	}
	if updated.Username != "erin" {
		t.Fatalf("username must be immutable, got %s", updated.Username)
	}
}

func TestUpdateContactValidation(t *testing.T) {
	store := memory.NewStore()
	service := newService(store)

	_, err := service.UpdateContact(context.Background(), UpdateContactCommand{
		Username: "erin",
		Email:    "not-an-email",
	})
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestDeleteHidesProfileFromReads(t *testing.T) {
	store := memory.NewStore()
	service := newService(store)

	if err := service.Replicate(context.Background(), ReplicateCommand{
		UserID:    "user-6",
		Username:  "frank",
		Email:     "frank@example.com",
		FullName:  "Frank Ocean",
		RoleNames: []string{"USER"},
	}); err != nil {
		t.Fatalf("replicate failed: %v", err)
	}

	if err := service.Delete(context.Background(), "frank"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := service.GetProfile(context.Background(), "frank"); !errors.Is(err, domainerrors.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound after delete, got %v", err)
	}
	profiles, err := service.ListProfiles(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(profiles) != 0 {
		t.Fatalf("deleted profile must not list, got %d", len(profiles))
	}

	if err := service.Delete(context.Background(), "frank"); !errors.Is(err, domainerrors.ErrProfileNotFound) {
		t.Fatalf("double delete must report not found, got %v", err)
	}
}
