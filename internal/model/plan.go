package model

import (
	"strings"
)

// PlanKind tells seed plans apart from plans the user created
type PlanKind string

const (
	PlanKindSeed PlanKind = "seed"
	PlanKindUser PlanKind = "user"
)

// Seed plans occupy a fixed id block; user plans are always numbered above it.
const (
	SeedIDMin int64 = 1001
	SeedIDMax int64 = 1005
)

// Plan is a single cultivation entry: a crop grown on some area
type Plan struct {
	ID   int64    `json:"id"`
	Kind PlanKind `json:"kind"`
	Crop string   `json:"crop"`
	Area string   `json:"area"`

	// Informational only
	Variety              string   `json:"variety,omitempty"`
	ExpectedYieldPerAcre *float64 `json:"expectedYieldPerAcre,omitempty"`
	CurrentMarketPrice   *float64 `json:"currentMarketPrice,omitempty"`
	SowingDate           string   `json:"sowingDate,omitempty"`
	LastWatered          string   `json:"lastWatered,omitempty"`
	FertilizedDate       string   `json:"fertilizedDate,omitempty"`
	Expenses             *float64 `json:"expenses,omitempty"`
}

// IsSeed returns true for the pre-populated plans
func (p Plan) IsSeed() bool {
	return p.Kind == PlanKindSeed
}

// IsSeedID returns true if id falls inside the seed block
func IsSeedID(id int64) bool {
	return id >= SeedIDMin && id <= SeedIDMax
}

// AreaQuantity parses the free-text area
func (p Plan) AreaQuantity() (Quantity, error) {
	return ParseQuantity(p.Area)
}

// CleanCrop trims and collapses whitespace in a crop name
func CleanCrop(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
