// Package domain contains the core data types for the tagtrack service.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItemRef is a read-only back-reference to the equipment item a tag
// authenticates. The equipment subsystem owns these fields; tagtrack never
// creates or mutates equipment records, it only carries the reference so
// search and display work without a cross-service lookup.
type ItemRef struct {
	// ItemID is the equipment subsystem's key for the item. At most one live
	// tag may exist per ItemID (enforced by the repo's Create).
	ItemID       uuid.UUID `json:"item_id"`
	Name         string    `json:"name"`
	SerialNumber string    `json:"serial_number"`
	Category     string    `json:"category,omitempty"`
}

// TagRecord is the persisted state for one physical QR tag.
// Records are created by the generation service in StatusActive and mutated
// exclusively through the lifecycle service's guarded transitions; no
// transition ever deletes a record.
type TagRecord struct {
	ID     uuid.UUID `json:"id"`
	Item   ItemRef   `json:"item"`
	Status Status    `json:"status"`

	// AssignedAt is the date the tag was first associated with the item.
	// Immutable after creation.
	AssignedAt time.Time `json:"assigned_at"`

	// LastUpdated is the time of the most recent status-changing event.
	// Always >= AssignedAt. Set only by the lifecycle service.
	LastUpdated time.Time `json:"last_updated"`

	// LastPrinted is the time of the most recent successful print or
	// replacement, nil if the tag has never been printed.
	LastPrinted *time.Time `json:"last_printed,omitempty"`
}
