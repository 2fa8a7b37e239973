// Package cli provides the interactive EduLibrary terminal client.
//
// App reads commands from a line-oriented REPL, dispatches them to the
// controller, and draws the resulting view.Screen with the Presenter after
// every command. Prompts for credentials, upload forms, confirmations and
// ticket bodies are read from the same input stream.
//
// The REPL is started via App.Run(ctx, inviteURL), which blocks until the
// user exits or input ends.
package cli
