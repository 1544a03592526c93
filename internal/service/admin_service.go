package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/jackc/pgx/v5"
)

// ErrAdminNotFound is returned for a missing admin account.
var ErrAdminNotFound = errors.New("admin not found")

// AdminStore is the admin account data access.
type AdminStore interface {
	GetByID(ctx context.Context, id int) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	Create(ctx context.Context, a *model.Admin) error
	List(ctx context.Context) ([]model.Admin, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// AdminService manages operator accounts.
type AdminService struct {
	admins AdminStore
	hasher PasswordHasher
}

// NewAdminService creates a new AdminService.
func NewAdminService(admins AdminStore, hasher PasswordHasher) *AdminService {
	return &AdminService{admins: admins, hasher: hasher}
}

// GetByID retrieves one admin.
func (s *AdminService) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return admin, nil
}

// GetByEmail retrieves one admin by email.
func (s *AdminService) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return admin, nil
}

// Create adds a new admin account.
func (s *AdminService) Create(ctx context.Context, req *model.CreateAdminRequest) (*model.Admin, error) {
	if _, err := s.admins.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailRegistered
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

// List returns all admin accounts.
func (s *AdminService) List(ctx context.Context) ([]model.Admin, error) {
	return s.admins.List(ctx)
}

// Delete removes an admin account.
func (s *AdminService) Delete(ctx context.Context, id int) error {
	deleted, err := s.admins.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	if !deleted {
		return ErrAdminNotFound
	}
	return nil
}
