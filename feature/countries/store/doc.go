// Package store persists the current generation of countries.
//
// A generation is installed with ReplaceAll: one transaction deletes every row
// and inserts the new ones, so readers observe either the previous generation
// or the new one, never a mix. Ids are regenerated by each ReplaceAll and are
// only stable within one generation.
//
// ReplaceAll and DeleteByName are serialized by a writer mutex in addition to
// the database transaction. Reads are not locked and rely on transaction
// isolation.
//
// Backend failures are returned wrapped around ErrStorage; a missing name is
// ErrNotFound. Name lookups are case-sensitive (the MySQL schema uses a binary
// collation on the column), region and currency filters are case-insensitive.
package store
