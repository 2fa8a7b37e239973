// Package models defines the client-side data model of the EduLibrary API:
// session, file records, support tickets, admin views and persisted settings.
//
// Wire structs carry the JSON field names the server emits; the client never
// mutates a File after decoding it.
package models
