//go:build windows

package codex

import (
	"os/exec"
	"sync"
)

// processGroup only kills the direct child; Windows has no process groups.
type processGroup struct {
	cmd  *exec.Cmd
	done chan struct{}
	once sync.Once
	err  error
}

func setupProcessGroup(*exec.Cmd) {}

func newProcessGroup(cmd *exec.Cmd, cancel <-chan struct{}) *processGroup {
	pg := &processGroup{cmd: cmd, done: make(chan struct{})}
	go func() {
		select {
		case <-cancel:
			if cmd.Process != nil {
				_ = cmd.Process.Kill()
			}
		case <-pg.done:
		}
	}()
	return pg
}

func (pg *processGroup) Wait() error {
	pg.once.Do(func() {
		pg.err = pg.cmd.Wait()
		close(pg.done)
	})
	return pg.err
}
