package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// dispatcher is the minimal surface the REPL needs. App satisfies it; tests
// provide a stub.
type dispatcher interface {
	exec(ctx context.Context, name string, args []string) error
	render()
}

// errQuit ends the loop.
var errQuit = errors.New("quit")

// runREPL reads one command per line, dispatches it and redraws the screen.
// It returns on EOF, on "exit" or "quit", or when ctx is cancelled.
//
// Handlers report their own failures on the status board, so the loop only
// prints usage errors.
func runREPL(ctx context.Context, d dispatcher, promptFn func() string, in *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(promptFn())
		line, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch execErr := d.exec(ctx, fields[0], fields[1:]); {
		case errors.Is(execErr, errQuit):
			printlnFn("Bye!")
			return
		case errors.Is(execErr, errUsage), errors.Is(execErr, errUnknownCommand):
			printlnFn(execErr.Error())
			continue
		}
		d.render()
	}
}
