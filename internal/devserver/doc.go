// Package devserver is an in-memory implementation of the EduLibrary HTTP
// API. It backs local development of the terminal client and its end-to-end
// tests; nothing is persisted across restarts.
//
// The server keeps the rules of the production API: a fixed category list
// (unknown categories become "Other"), PDF-only uploads, newest-first
// listings, owner-or-admin deletion, per-user upload and download counters,
// and JSON error bodies of the form {"error": "..."}.
package devserver
