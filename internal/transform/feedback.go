package transform

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"ntv2/internal/logging"
)

// Feedback receives progress text while a command runs. Implementations
// must be safe for concurrent use: stages report in parallel.
type Feedback interface {
	// Command is called once with the rendered command line before any
	// stage starts.
	Command(line string)
	// Console is one line of tool output from the given stage.
	Console(stage int, line string)
}

// LogFeedback relays to the process logger.
type LogFeedback struct {
	Algorithm string
}

func (f LogFeedback) Command(line string) {
	logging.L().Info("gdal command", "algorithm", f.Algorithm, "command", line)
}

func (f LogFeedback) Console(stage int, line string) {
	logging.L().Debug("gdal output", "algorithm", f.Algorithm, "stage", stage, "line", line)
}

// WriterFeedback prints everything to W, prefixing console lines with the
// stage index when the command has several stages.
type WriterFeedback struct {
	W io.Writer

	mu sync.Mutex
}

func (f *WriterFeedback) Command(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintln(f.W, line)
}

func (f *WriterFeedback) Console(stage int, line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.W, "[%d] %s\n", stage, line)
}

// Discard drops all feedback.
type Discard struct{}

func (Discard) Command(string)      {}
func (Discard) Console(int, string) {}

// lineWriter splits a byte stream into lines for Feedback.Console.
type lineWriter struct {
	fb    Feedback
	stage int
	buf   []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *lineWriter) flush() {
	if len(w.buf) > 0 {
		w.emit(w.buf)
		w.buf = nil
	}
}

func (w *lineWriter) emit(b []byte) {
	line := string(bytes.TrimRight(b, "\r"))
	if line != "" {
		w.fb.Console(w.stage, line)
	}
}
