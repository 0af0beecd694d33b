package models

// Region is a sales territory (mirrors DB check constraint on region columns)
type Region string

const (
	RegionNorthEast Region = "North-East"
	RegionMidWest   Region = "Mid-West"
	RegionPacific   Region = "Pacific"
)

// DefaultRegion is used when a submitted region is not recognized
const DefaultRegion = RegionPacific

// Valid reports whether r is one of the known regions
func (r Region) Valid() bool {
	switch r {
	case RegionNorthEast, RegionMidWest, RegionPacific:
		return true
	}
	return false
}

// OrDefault returns r if valid, otherwise DefaultRegion
func (r Region) OrDefault() Region {
	if r.Valid() {
		return r
	}
	return DefaultRegion
}

// Status is the lifecycle flag shared by all entities
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// OrDefault returns s if valid, otherwise StatusActive
func (s Status) OrDefault() Status {
	if s == StatusActive || s == StatusInactive {
		return s
	}
	return StatusActive
}

// Tier classifies customers by value
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// OrDefault returns t if valid, otherwise TierA
func (t Tier) OrDefault() Tier {
	switch t {
	case TierA, TierB, TierC:
		return t
	}
	return TierA
}
