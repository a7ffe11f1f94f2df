// Package assets manages the files catalog entities own.
//
// A Store maps between the relative paths persisted on entities and files
// under a single root directory. Stored paths always begin with the root's
// last segment ("uploads/products/1f0c.jpg" for a root of /srv/uploads), so a
// record stays valid if the root directory moves.
//
// Deletion is tolerant: a missing file is treated as already deleted and any
// other failure is logged and counted rather than propagated. DeleteAll fans
// out with a fixed concurrency limit and waits for every unlink.
//
// An Uploader is the intake side. It enforces the size and media type limits
// and copies source files into the root under generated names.
package assets
