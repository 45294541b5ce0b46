// Package timing prints startup checkpoints when CODEAGENT_DEBUG_TIMING=1.
package timing

import (
	"fmt"
	"io"
	"os"
	"time"
)

var (
	enabled   = os.Getenv("CODEAGENT_DEBUG_TIMING") == "1"
	out       io.Writer = os.Stderr
	startTime = time.Now()
	lastTime  = startTime
)

// Log prints label with the time since the previous checkpoint and since start.
func Log(label string) {
	if !enabled {
		return
	}
	now := time.Now()
	fmt.Fprintf(out, "[TIMING] %s: +%dms (total: %dms)\n",
		label, now.Sub(lastTime).Milliseconds(), now.Sub(startTime).Milliseconds())
	lastTime = now
}
