package models

import (
	"errors"
	"strings"
	"time"
)

// Salesman represents a field salesman
// Backed by table `salesmen`
type Salesman struct {
	ID                       string    `json:"salesman_id" db:"salesman_id"`
	Name                     string    `json:"salesman_name" db:"name"`
	Region                   Region    `json:"salesman_region" db:"region"`
	Email                    string    `json:"salesman_email" db:"email"`
	Phone                    string    `json:"salesman_phone" db:"phone"`
	Status                   Status    `json:"salesman_status" db:"status"`
	AssignedCustomerCount    int       `json:"assigned_customer_count" db:"assigned_customer_count"`
	AssignedDistributorCount int       `json:"assigned_distributor_count" db:"assigned_distributor_count"`
	CreatedAt                time.Time `json:"created_at" db:"created_at"`
}

// ErrSalesmanRequiredFields is returned when a required salesman field is blank
var ErrSalesmanRequiredFields = errors.New("Please fill all required fields (Name, Region, Email, Phone)")

// Validate checks the presence of required fields
func (s Salesman) Validate() error {
	if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(string(s.Region)) == "" ||
		strings.TrimSpace(s.Email) == "" || strings.TrimSpace(s.Phone) == "" {
		return ErrSalesmanRequiredFields
	}
	return nil
}

// Normalize applies defaults for enum fields and clamps negative counters
func (s *Salesman) Normalize() {
	s.Region = s.Region.OrDefault()
	s.Status = s.Status.OrDefault()
	if s.AssignedCustomerCount < 0 {
		s.AssignedCustomerCount = 0
	}
	if s.AssignedDistributorCount < 0 {
		s.AssignedDistributorCount = 0
	}
}
