// Package settings persists client preferences in a local SQLite database.
//
// The schema is owned by goose migrations embedded in the migrations package;
// Open applies them before handing out a Repository.
package settings
