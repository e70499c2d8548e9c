// Package safego runs functions with panic recovery so a misbehaving
// producer or animation callback cannot take the whole process down.
package safego

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/andyrewlee/cellframe/internal/logging"
)

// PanicHandler receives panic details from recovered goroutines.
type PanicHandler func(name string, recovered any, stack []byte)

// PanicError is returned by Run when fn panicked.
type PanicError struct {
	Name      string
	Recovered any
	Stack     []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Name, e.Recovered)
}

var (
	panicHandlerMu sync.RWMutex
	panicHandler   PanicHandler
)

// SetPanicHandler registers a global handler for recovered panics.
func SetPanicHandler(handler PanicHandler) {
	panicHandlerMu.Lock()
	panicHandler = handler
	panicHandlerMu.Unlock()
}

// Run executes fn and converts a panic into a logged *PanicError.
// Runtime-fatal errors (e.g. concurrent map writes) are not recoverable.
func Run(name string, fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		label := name
		if label == "" {
			label = "goroutine"
		}
		stack := debug.Stack()
		logging.Error("panic in %s: %v\n%s", label, r, stack)
		err = &PanicError{Name: label, Recovered: r, Stack: stack}

		panicHandlerMu.RLock()
		handler := panicHandler
		panicHandlerMu.RUnlock()
		if handler != nil {
			func() {
				defer func() { _ = recover() }()
				handler(label, r, stack)
			}()
		}
	}()
	fn()
	return nil
}

// Go runs fn in a new goroutine with panic recovery.
func Go(name string, fn func()) {
	go func() { _ = Run(name, fn) }()
}
