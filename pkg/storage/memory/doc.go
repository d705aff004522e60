// Package memory implements the storage repositories in process memory.
// It follows the Postgres semantics that callers rely on: case-insensitive
// substring filters, whitelisted sorting with a stable id tie-break, unique
// keys reported as storage.ErrConflict and missing rows as
// storage.ErrNotFound. It backs service tests and local runs without a
// database.
package memory
