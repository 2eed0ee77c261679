package stdout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"ntv2/internal/job"
	"ntv2/sink"
)

/* ────────── config ────────── */
type Config struct {
	// Writer defaults to os.Stdout.
	Writer io.Writer `yaml:"-"`
}

/* ────────── driver ────────── */
type driver struct {
	mu  sync.Mutex // one result per line
	enc *json.Encoder
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	w := c.Writer
	if w == nil {
		w = os.Stdout
	}
	d.enc = json.NewEncoder(w)
	return nil
}

func (d *driver) Push(r *job.Result) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.enc == nil {
		return fmt.Errorf("stdout-sink: not configured")
	}
	return d.enc.Encode(r)
}

func (d *driver) Close() error { return nil }

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Adapter { return &driver{} })
}
