//go:build !windows

package codex

import (
	"errors"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/alexander-akhmetov/codeagent/internal/debug"
)

// killGrace separates SIGTERM from SIGKILL.
const killGrace = 100 * time.Millisecond

type processGroup struct {
	cmd  *exec.Cmd
	done chan struct{}
	once sync.Once
	err  error
}

func setupProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// newProcessGroup kills the whole group of a started cmd once cancel closes.
func newProcessGroup(cmd *exec.Cmd, cancel <-chan struct{}) *processGroup {
	pg := &processGroup{cmd: cmd, done: make(chan struct{})}
	go func() {
		select {
		case <-cancel:
			pg.kill()
		case <-pg.done:
		}
	}()
	return pg
}

func (pg *processGroup) kill() {
	if pg.cmd.Process == nil || pg.cmd.Process.Pid <= 0 {
		return
	}
	pgid := -pg.cmd.Process.Pid
	if err := syscall.Kill(pgid, syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
		debug.Logf("codex: SIGTERM pgid %d: %v", pgid, err)
	}
	time.Sleep(killGrace)
	if err := syscall.Kill(pgid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		debug.Logf("codex: SIGKILL pgid %d: %v", pgid, err)
	}
}

// Wait is safe to call more than once.
func (pg *processGroup) Wait() error {
	pg.once.Do(func() {
		pg.err = pg.cmd.Wait()
		close(pg.done)
	})
	return pg.err
}
