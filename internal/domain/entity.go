package domain

import (
	"slices"
	"time"
)

// Entity is a catalog record that owns an ordered list of asset files
type Entity struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Price       float64   `json:"price" yaml:"price"`
	Colors      []string  `json:"colors,omitempty" yaml:"colors,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	AssetPaths  []string  `json:"asset_paths" yaml:"asset_paths"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// HasAssets reports whether the entity references any asset files
func (e *Entity) HasAssets() bool {
	return e != nil && len(e.AssetPaths) > 0
}

// Clone returns a deep copy so callers can hold a snapshot
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	c := *e
	c.Colors = slices.Clone(e.Colors)
	c.AssetPaths = slices.Clone(e.AssetPaths)
	return &c
}

// EntityDraft holds the fields supplied when creating an entity.
// AssetPaths is filled in by the catalog service, never by callers.
type EntityDraft struct {
	Name        string   `json:"name" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	Colors      []string `json:"colors,omitempty" validate:"omitempty,dive,required"`
	Description string   `json:"description,omitempty"`
	AssetPaths  []string `json:"-" validate:"-"`
}

// NewEntity builds the record a store persists for draft
func NewEntity(id string, d EntityDraft, now time.Time) *Entity {
	paths := slices.Clone(d.AssetPaths)
	if paths == nil {
		paths = []string{}
	}
	return &Entity{
		ID:          id,
		Name:        d.Name,
		Price:       d.Price,
		Colors:      slices.Clone(d.Colors),
		Description: d.Description,
		AssetPaths:  paths,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Touch sets UpdatedAt to now, keeping it strictly after the previous value
func (e *Entity) Touch(now time.Time) {
	if !now.After(e.UpdatedAt) {
		now = e.UpdatedAt.Add(time.Nanosecond)
	}
	e.UpdatedAt = now
}

// EntityPatch holds a partial update. A nil field is left untouched.
type EntityPatch struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Colors      *[]string `json:"colors,omitempty" validate:"omitempty"`
	Description *string   `json:"description,omitempty"`
	AssetPaths  *[]string `json:"-" validate:"-"`
}

// IsEmpty reports whether the patch carries no field at all
func (p EntityPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Colors == nil &&
		p.Description == nil && p.AssetPaths == nil
}

// Apply merges the supplied fields into e
func (p EntityPatch) Apply(e *Entity) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Price != nil {
		e.Price = *p.Price
	}
	if p.Colors != nil {
		e.Colors = slices.Clone(*p.Colors)
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.AssetPaths != nil {
		e.AssetPaths = slices.Clone(*p.AssetPaths)
	}
}

// UploadedAsset is a file already placed on disk by the upload layer
type UploadedAsset struct {
	TempPath  string `json:"temp_path"`
	SizeBytes int64  `json:"size_bytes"`
	MimeType  string `json:"mime_type"`
}
