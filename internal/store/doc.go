// Package store keeps built cubes and metadata documents in a SQLite file,
// one named graph per document ("population", "health_care", "catalog", ...).
//
// SaveGraph replaces a graph of the same name in a single transaction, so a
// reader sees either the old graph or the new one. Statements are returned
// in the order they were saved; graph listings are sorted by name.
//
// The database runs in WAL mode with foreign keys on: deleting a graph
// deletes its statements. Schema upgrades are tracked in PRAGMA
// user_version and applied by Open.
package store
