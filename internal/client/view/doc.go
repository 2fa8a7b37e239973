// Package view holds the client's view state, the section router, the
// transient status board and the pure render function that turns a State
// into a Screen. Nothing here performs I/O; section entry handlers are
// supplied by the caller.
package view
