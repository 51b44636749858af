// Package catalog manages the procedure catalog offered in the plan form
// dropdown.
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Procedure is one selectable catalog entry.
type Procedure struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// DefaultProcedures is the stock procedure list, seeded into the catalog
// at startup by Service.SeedDefaults. The "Custom" choice is a form-level
// sentinel resolved by the plan normalizer and is deliberately not a
// catalog entry.
var DefaultProcedures = []string{
	"Extraction",
	"Wisdom tooth extraction",
	"Sedation",
	"Fillings",
	"Invisalign",
	"Root Canal Treatment",
	"Crowns",
	"Bridges",
	"Gum Disease Treatment",
	"Laser surgery",
	"Whitening",
	"Sleep Apnea treatment",
	"Dentures",
	"Dental Implants",
	"Bone Graft",
}
