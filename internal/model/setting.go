package model

import "time"

// Well-known event setting keys.
const (
	SettingQuestionWeight = "question_weight"
)

// EventSetting represents a key-value pair for global contest configuration.
type EventSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateSettingsRequest is the payload for bulk updating settings.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}
