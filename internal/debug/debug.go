// Package debug provides debug logging utilities.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	enabled = os.Getenv("CODEAGENT_DEBUG") == "1"
	out     io.Writer = os.Stderr
)

// Logf writes a timestamped line to stderr when CODEAGENT_DEBUG=1.
func Logf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	fmt.Fprintf(out, "[DEBUG %s] %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// SetOutput redirects debug output and force-enables it. It returns a
// function restoring the previous state. Intended for tests.
func SetOutput(w io.Writer) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prevOut, prevEnabled := out, enabled
	out, enabled = w, true
	return func() {
		mu.Lock()
		defer mu.Unlock()
		out, enabled = prevOut, prevEnabled
	}
}
