package models

import (
	"errors"
	"strings"
	"time"
)

// Distributor represents a wholesale distributor, optionally served by one salesman
// Backed by table `distributors`
type Distributor struct {
	ID                   string    `json:"distributor_id" db:"distributor_id"`
	SalesmanID           *string   `json:"salesman_id" db:"salesman_id"`
	Name                 string    `json:"distributor_name" db:"name"`
	Company              string    `json:"distributor_company" db:"company"`
	Region               string    `json:"distributor_region" db:"region"`
	Phone                string    `json:"distributor_phone" db:"phone"`
	Email                string    `json:"distributor_email" db:"email"`
	Contact              string    `json:"distributor_contact" db:"contact"`
	Status               Status    `json:"distributor_status" db:"status"`
	AssignedProductCount int       `json:"distributor_assigned_products" db:"assigned_product_count"`
	Notes                string    `json:"notes" db:"notes"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}

// ErrDistributorRequiredFields is returned when the distributor name is blank
var ErrDistributorRequiredFields = errors.New("Distributor name is required")

// Validate checks the presence of required fields
func (d Distributor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrDistributorRequiredFields
	}
	return nil
}

// Normalize applies defaults
func (d *Distributor) Normalize() {
	d.Status = d.Status.OrDefault()
	d.SalesmanID = nullIfBlank(d.SalesmanID)
	if d.AssignedProductCount < 0 {
		d.AssignedProductCount = 0
	}
}

// EmailParam returns the email for storage, NULL when blank
func (d Distributor) EmailParam() *string {
	return nullIfBlank(&d.Email)
}

// DistributorUpdate is the body of PUT /distributors/:id. A non-nil
// AssignedProducts replaces the distributor's product roster.
type DistributorUpdate struct {
	Distributor
	AssignedProducts *[]string `json:"assigned_products"`
}
