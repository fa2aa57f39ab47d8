// Package core holds process-wide crash handling
package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

// Finalizer restores a terminal; tcell.Screen satisfies it
type Finalizer interface {
	Fini()
}

var (
	crashMu       sync.Mutex
	crashTerminal Finalizer
	crashHooks    []func()

	crashOut  io.Writer = os.Stderr
	crashExit           = os.Exit
)

// SetCrashTerminal registers the screen to restore before the stack trace is printed
// Pass nil once the screen has been finalized normally
func SetCrashTerminal(t Finalizer) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashTerminal = t
}

// OnCrash registers fn to run after the terminal is restored, e.g. flushing the log file
func OnCrash(fn func()) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashHooks = append(crashHooks, fn)
}

// HandleCrash restores the terminal, runs crash hooks, prints the stack trace and exits with status 1
// Use as: defer func() { core.HandleCrash(recover()) }()
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	term := crashTerminal
	hooks := append([]func(){}, crashHooks...)
	crashMu.Unlock()

	if term != nil {
		term.Fini()
	}
	for _, fn := range hooks {
		fn()
	}

	os.Stdout.Sync()
	fmt.Fprintf(crashOut, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(crashOut, "Stack Trace:\n%s\n", debug.Stack())

	crashExit(1)
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
