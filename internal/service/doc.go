// Package service implements the catalog's business logic.
//
// CatalogService sits between the request layer and two independent stores:
// the record store (a repository.EntityRepository) and the asset files (an
// assets.Store). Neither side can roll back the other, so the service
// compensates by hand:
//
//   - Create writes the record after the uploads are on disk; if the write
//     fails the uploads are deleted.
//   - Update with uploads deletes the entity's old files, then writes the
//     record with the new list; if that write fails the new uploads are
//     deleted and the old files stay lost.
//   - Delete removes the files first and then the record.
//
// File deletions never fail an operation. They are logged and counted, and
// compensating deletions run detached from the request's cancellation.
//
// # Event System
//
// The service publishes events via EventBus after each successful write and
// after every compensation. Publishing never blocks; slow subscribers miss
// events.
package service
