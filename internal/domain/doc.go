// Package domain defines the core types of the asset catalog.
//
// # Core Types
//
// Entity is a catalog record (name, price, colors, description) that owns an
// ordered list of asset paths. Each path is relative to the public asset root
// and refers to a file on disk for as long as the entity exists.
//
// EntityDraft and EntityPatch carry the caller-supplied fields for create and
// partial update. A nil field on a patch is left untouched.
//
// UploadedAsset describes a file the upload layer has already written to disk.
//
// # Queries
//
// Query is the closed set of listing options: a case-insensitive name
// substring, inclusive price bounds and an optional single-field sort. The
// zero value matches every entity in storage order.
//
// # Errors
//
// Error carries one of four kinds (validation, not found, storage, filesystem)
// so callers branch with errors.Is against ErrValidation, ErrNotFound,
// ErrStorage and ErrFileSystem.
//
// # Design Principles
//
// - No database or filesystem dependencies
// - Identifiers use the ObjectID hex format regardless of the record store
package domain
