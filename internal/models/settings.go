package models

import (
	"errors"
	"strings"
	"time"
)

// Settings holds company-wide preferences. The most recently created row is current.
// Backed by table `settings`
type Settings struct {
	ID          string     `json:"setting_id,omitempty" db:"setting_id"`
	CompanyName string     `json:"company_name" db:"company_name"`
	Timezone    string     `json:"timezone" db:"timezone"`
	Currency    string     `json:"currency" db:"currency"`
	CreatedAt   *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// ErrSettingsRequiredFields is returned when a settings field is blank
var ErrSettingsRequiredFields = errors.New("company_name, timezone, and currency are required")

// Normalize trims all fields
func (s *Settings) Normalize() {
	s.CompanyName = strings.TrimSpace(s.CompanyName)
	s.Timezone = strings.TrimSpace(s.Timezone)
	s.Currency = strings.TrimSpace(s.Currency)
}

// Validate checks the presence of required fields. Call after Normalize.
func (s Settings) Validate() error {
	if s.CompanyName == "" || s.Timezone == "" || s.Currency == "" {
		return ErrSettingsRequiredFields
	}
	return nil
}
