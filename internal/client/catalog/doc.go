// Package catalog holds the in-memory file catalog and derives the visible
// subsets of it.
//
// The Store is replaced wholesale on every refresh and keeps the previous
// catalog when a refresh fails. FilterByCategory and Search are pure
// functions of a Catalog and never touch the network.
package catalog
