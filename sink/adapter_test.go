package sink

import (
	"strings"
	"testing"

	"ntv2/internal/job"
)

type nopSink struct{}

func (nopSink) Configure(any) error    { return nil }
func (nopSink) Push(*job.Result) error { return nil }
func (nopSink) Close() error           { return nil }

func TestNewAdapter_UnknownListsRegistered(t *testing.T) {
	Register("nop", func() Adapter { return nopSink{} })
	t.Cleanup(func() { delete(reg, "nop") })

	if _, err := NewAdapter("nop"); err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	_, err := NewAdapter("s3")
	if err == nil || !strings.Contains(err.Error(), "nop") {
		t.Fatalf("unknown sink error must name the registered sinks, got %v", err)
	}
}
