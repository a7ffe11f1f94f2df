// Package repository defines the record store abstraction for catalog entities.
//
// # Repository Interface
//
// EntityRepository covers create, lookup, filtered listing, partial update
// and delete. Listings are returned as iter.Seq2 values that run their query
// lazily and may be consumed exactly once; wrap implementations' sequences
// with Once to get that guarantee.
//
// # Implementations
//
//   - sqlite: the default store, a single file using WAL mode with JSON
//     columns for colors and asset paths
//   - mongo: a MongoDB collection keyed by ObjectID
//   - mocks: an in-memory store with failure injection for tests
//
// All implementations share the identifier format from the domain package
// so a malformed identifier is reported as not found without a round trip.
package repository
