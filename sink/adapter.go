package sink

import (
	"fmt"
	"sort"
	"strings"

	"ntv2/internal/job"
)

// Adapter is the common behaviour every result sink exposes.
type Adapter interface {
	Configure(any) error    // driver-specific config struct
	Push(*job.Result) error // deliver one result
	Close() error           // idempotent
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q (have %s)", name, strings.Join(Names(), ", "))
}

// Names lists the registered sinks.
func Names() []string {
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
