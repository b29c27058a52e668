package models

import (
	"time"

	"github.com/google/uuid"
)

// RegistryRecord is one deduplicated entity extracted from a registry workbook
type RegistryRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Business is a business row together with its optional editable data
type Business struct {
	ID           uuid.UUID             `json:"id" db:"id"`
	BusinessName string                `json:"business_name" db:"business_name"`
	EditableData *EditableBusinessData `json:"editable_data,omitempty"`
}

// EditableBusinessData holds the user-maintained contact fields of a business
type EditableBusinessData struct {
	ID             uuid.UUID `json:"id" db:"id"`
	BusinessID     uuid.UUID `json:"business_id" db:"business_id"`
	PrimaryEmail   *string   `json:"primary_email,omitempty" db:"primary_email"`
	AlternateEmail *string   `json:"alternate_email,omitempty" db:"alternate_email"`
	Tags           []string  `json:"tags" db:"tags"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// EditableDataUpdate is a partial update; nil fields are left unchanged
type EditableDataUpdate struct {
	PrimaryEmail   *string
	AlternateEmail *string
	Tags           []string
}

// IsEmpty reports whether the update changes nothing
func (u EditableDataUpdate) IsEmpty() bool {
	return u.PrimaryEmail == nil && u.AlternateEmail == nil && u.Tags == nil
}

// AmbiguousMatch is a registry record whose name matched several businesses
type AmbiguousMatch struct {
	Record     RegistryRecord `json:"record"`
	Businesses []string       `json:"businesses"`
}

// SyncReport summarizes a registry sync run
type SyncReport struct {
	RegistryRecords int              `json:"registry_records"`
	Matched         int              `json:"matched"`
	Created         int              `json:"created"`
	Updated         int              `json:"updated"`
	Skipped         int              `json:"skipped"`
	Ambiguous       []AmbiguousMatch `json:"ambiguous"`
	DryRun          bool             `json:"dry_run"`
}
