// Package job holds the request and result types shared by the CLI, the gRPC
// service and the queue worker.
package job

import (
	"encoding/json"
	"fmt"
	"time"
)

// Request names an algorithm and the raw user selections. Direction, datum
// and grid accept option keys or zero-based indices.
type Request struct {
	ID        string `json:"id,omitempty" yaml:"id"`
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Direction string `json:"direction,omitempty" yaml:"direction"`
	Datum     string `json:"datum" yaml:"datum"`
	Grid      string `json:"grid" yaml:"grid"`
	Input     string `json:"input" yaml:"input"`
	Layer     string `json:"layer,omitempty" yaml:"layer"`
	Output    string `json:"output" yaml:"output"`
}

func (r Request) Validate() error {
	switch {
	case r.Algorithm == "":
		return fmt.Errorf("job %s: algorithm is required", r.label())
	case r.Input == "":
		return fmt.Errorf("job %s: input is required", r.label())
	case r.Output == "":
		return fmt.Errorf("job %s: output is required", r.label())
	}
	return nil
}

func (r Request) label() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Algorithm
}

type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
	StatusDryRun Status = "dry_run"
)

type Result struct {
	ID        string    `json:"id,omitempty"`
	Algorithm string    `json:"algorithm"`
	Direction string    `json:"direction,omitempty"`
	Output    string    `json:"output,omitempty"`
	Command   string    `json:"command,omitempty"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
}

// Fail records err as the outcome of r.
func (r *Result) Fail(err error) *Result {
	r.Status = StatusFailed
	r.Error = err.Error()
	if r.Finished.IsZero() {
		r.Finished = time.Now().UTC()
	}
	return r
}

// Message is one queued request together with the position it was read
// from.
type Message struct {
	Key     []byte
	Value   []byte
	Topic   string
	Part    int32
	Offset  int64
	Time    time.Time
	Headers map[string][]byte
}

// Decode parses the message value as a JSON Request. A missing ID is
// filled from ID.
func (m *Message) Decode() (Request, error) {
	var req Request
	if err := json.Unmarshal(m.Value, &req); err != nil {
		return req, fmt.Errorf("decode job %s[%d]@%d: %w", m.Topic, m.Part, m.Offset, err)
	}
	if req.ID == "" {
		req.ID = m.ID()
	}
	return req, nil
}

// ID is the message key, or topic-partition-offset for unkeyed messages.
func (m *Message) ID() string {
	if len(m.Key) > 0 {
		return string(m.Key)
	}
	return fmt.Sprintf("%s-%d-%d", m.Topic, m.Part, m.Offset)
}
