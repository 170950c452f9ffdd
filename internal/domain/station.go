package domain

import (
	"time"

	"github.com/google/uuid"
)

// StationCategory is the top level of the station taxonomy.
type StationCategory struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// StationSubcategory belongs to exactly one category.
type StationSubcategory struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Name       string
	CreatedAt  time.Time
}

// Station is a single exam-practice topic, the leaf of the taxonomy.
// CategoryID is derived through the subcategory when the station is read;
// it is never stored on the station itself.
type Station struct {
	ID            uuid.UUID
	SubcategoryID uuid.UUID
	CategoryID    uuid.UUID
	Name          string
	IsActive      bool
	CreatedAt     time.Time
}
