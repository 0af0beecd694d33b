package models

// DashboardSummary aggregates entity counts for the landing page
type DashboardSummary struct {
	Products     int        `json:"products"`
	Distributors int        `json:"distributors"`
	Customers    int        `json:"customers"`
	Salesmen     int        `json:"salesmen"`
	Unassigned   Unassigned `json:"unassigned"`
	LowStock     []Product  `json:"low_stock"`
}

// Unassigned counts entities with no owning salesman or distributor
type Unassigned struct {
	Customers    int `json:"customers"`
	Distributors int `json:"distributors"`
	Products     int `json:"products"`
}
