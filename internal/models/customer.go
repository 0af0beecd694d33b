package models

import (
	"errors"
	"strings"
	"time"
)

// Customer represents a retail customer, optionally served by one salesman
// Backed by table `customers`
type Customer struct {
	ID         string    `json:"customer_id" db:"customer_id"`
	SalesmanID *string   `json:"salesman_id" db:"salesman_id"`
	Name       string    `json:"customer_name" db:"name"`
	City       string    `json:"customer_city" db:"city"`
	Region     string    `json:"customer_region" db:"region"`
	Tier       Tier      `json:"customer_tier" db:"tier"`
	Contact    string    `json:"customer_contact" db:"contact"`
	Email      string    `json:"customer_email" db:"email"`
	Phone      string    `json:"customer_phone" db:"phone"`
	Address    string    `json:"customer_address" db:"address"`
	Notes      string    `json:"customer_notes" db:"notes"`
	Status     Status    `json:"customer_status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ErrCustomerRequiredFields is returned when a required customer field is blank
var ErrCustomerRequiredFields = errors.New("Name, City, and Region are required")

// Validate checks the presence of required fields
func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.City) == "" || strings.TrimSpace(c.Region) == "" {
		return ErrCustomerRequiredFields
	}
	return nil
}

// Normalize applies defaults. An empty salesman reference means unassigned.
func (c *Customer) Normalize() {
	c.Tier = c.Tier.OrDefault()
	c.Status = c.Status.OrDefault()
	c.SalesmanID = nullIfBlank(c.SalesmanID)
}

// EmailParam returns the email for storage. Email is optional but unique, so blank is stored as NULL.
func (c Customer) EmailParam() *string {
	return nullIfBlank(&c.Email)
}

func nullIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
