// Package sqlite provides SQLite-based persistence for the document
// history and conversation transcripts. A single Store owns the database
// connection and hands out the individual store interfaces as wrappers.
package sqlite
