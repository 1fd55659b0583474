package models

// SourceType identifies one of the fixed footfall source kinds.
// The set is closed: scoring weights and influence radii are configured
// per type and validated together.
type SourceType string

const (
	SourceTransit  SourceType = "transit"
	SourceStreet   SourceType = "street"
	SourcePremises SourceType = "premises"
)

// SourceTypes lists all source types in a stable order.
var SourceTypes = []SourceType{SourceTransit, SourceStreet, SourcePremises}

// FootfallSource is a point generator of pedestrian traffic.
// Intensity is in type-specific units (annual entries for transit stops,
// services per hour for street stops, seated capacity for premises) and is
// normalized within its own type population before scoring.
type FootfallSource struct {
	ID        string     `json:"id"`
	Type      SourceType `json:"type"`
	Name      string     `json:"name,omitempty"`
	Lat       float64    `json:"lat"`
	Lon       float64    `json:"lon"`
	Intensity float64    `json:"intensity"`
}
