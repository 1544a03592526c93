package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/jackc/pgx/v5"
)

// ErrSettingNotFound is returned for a missing settings key.
var ErrSettingNotFound = errors.New("setting not found")

// SettingStore is the event settings data access.
type SettingStore interface {
	GetAll(ctx context.Context) ([]model.EventSetting, error)
	GetByKey(ctx context.Context, key string) (*model.EventSetting, error)
	Upsert(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) (bool, error)
}

// SettingService manages global contest settings.
type SettingService struct {
	settings SettingStore
}

// NewSettingService creates a new SettingService.
func NewSettingService(settings SettingStore) *SettingService {
	return &SettingService{settings: settings}
}

// GetAll returns every setting.
func (s *SettingService) GetAll(ctx context.Context) ([]model.EventSetting, error) {
	return s.settings.GetAll(ctx)
}

// GetByKey returns one setting.
func (s *SettingService) GetByKey(ctx context.Context, key string) (*model.EventSetting, error) {
	setting, err := s.settings.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return setting, nil
}

// UpdateBulk upserts a batch of settings.
func (s *SettingService) UpdateBulk(ctx context.Context, settings map[string]string) error {
	for key, value := range settings {
		if err := s.settings.Upsert(ctx, key, value); err != nil {
			return fmt.Errorf("upsert setting %q: %w", key, err)
		}
	}
	return nil
}

// Delete removes a setting.
func (s *SettingService) Delete(ctx context.Context, key string) error {
	deleted, err := s.settings.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	if !deleted {
		return ErrSettingNotFound
	}
	return nil
}
