package transform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"ntv2/internal/gdalcmd"
	"ntv2/internal/logging"
)

// Executor runs a command to completion.
type Executor interface {
	Execute(ctx context.Context, cmd *gdalcmd.Command, fb Feedback) error
}

// StageError reports the stage that failed. Err is usually an
// *exec.ExitError.
type StageError struct {
	Stage   int
	Program string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d (%s): %v", e.Stage, e.Program, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ProcessExecutor runs stages as local processes without a shell.
type ProcessExecutor struct {
	// Programs overrides the executable used for a tool name, e.g.
	// "ogr2ogr" -> "/opt/gdal/bin/ogr2ogr".
	Programs map[string]string
	// Env is appended to the current environment of every stage.
	Env []string
}

func NewProcessExecutor(programs map[string]string) *ProcessExecutor {
	return &ProcessExecutor{Programs: programs}
}

func (e *ProcessExecutor) program(name string) string {
	if p, ok := e.Programs[name]; ok && p != "" {
		return p
	}
	return name
}

func (e *ProcessExecutor) Execute(ctx context.Context, cmd *gdalcmd.Command, fb Feedback) error {
	if cmd == nil || len(cmd.Stages) == 0 {
		return errors.New("transform: empty command")
	}
	if fb == nil {
		fb = Discard{}
	}
	fb.Command(cmd.String())

	n := len(cmd.Stages)
	procs := make([]*exec.Cmd, n)
	outs := make([]*lineWriter, 0, n+1)
	for i, s := range cmd.Stages {
		c := exec.CommandContext(ctx, e.program(s.Program), s.Args...)
		if len(e.Env) > 0 {
			c.Env = append(os.Environ(), e.Env...)
		}
		stderr := &lineWriter{fb: fb, stage: i}
		c.Stderr = stderr
		outs = append(outs, stderr)
		procs[i] = c
	}
	last := &lineWriter{fb: fb, stage: n - 1}
	procs[n-1].Stdout = last
	outs = append(outs, last)

	// OS pipes between neighbours; the parent's copies are closed once both
	// ends have been handed to started processes.
	var parentEnds []*os.File
	closeParent := func() {
		for _, f := range parentEnds {
			_ = f.Close()
		}
		parentEnds = nil
	}
	for i := 0; i < n-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			closeParent()
			return fmt.Errorf("transform: pipe: %w", err)
		}
		procs[i].Stdout = w
		procs[i+1].Stdin = r
		parentEnds = append(parentEnds, r, w)
	}

	for i, c := range procs {
		if err := c.Start(); err != nil {
			for _, started := range procs[:i] {
				_ = started.Process.Kill()
				_ = started.Wait()
			}
			closeParent()
			return &StageError{Stage: i, Program: cmd.Stages[i].Program, Err: err}
		}
		logging.L().Debug("stage started", "stage", i, "program", c.Path, "pid", c.Process.Pid)
	}
	closeParent()

	var failed []*StageError
	for i, c := range procs {
		if err := c.Wait(); err != nil {
			failed = append(failed, &StageError{Stage: i, Program: cmd.Stages[i].Program, Err: err})
		}
	}
	for _, w := range outs {
		w.flush()
	}
	if err := blame(failed); err != nil {
		return err
	}
	return ctx.Err()
}

// blame picks the stage to report. An upstream stage killed by SIGPIPE only
// saw its reader go away, so the first stage that failed for another reason
// wins; if every failure is a broken pipe the most downstream one is used.
func blame(failed []*StageError) error {
	if len(failed) == 0 {
		return nil
	}
	for _, se := range failed {
		if !brokenPipe(se.Err) {
			return se
		}
	}
	return failed[len(failed)-1]
}

func brokenPipe(err error) bool {
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return false
	}
	if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() && ws.Signal() == syscall.SIGPIPE {
		return true
	}
	// Shells report a child killed by signal N as 128+N.
	return ee.ExitCode() == 128+int(syscall.SIGPIPE)
}
