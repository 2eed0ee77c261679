package pipeline

import (
	"net/http"

	"ntv2/internal/config"
	"ntv2/internal/grids"
	"ntv2/internal/transform"
)

// NewStore opens the grid store described by cfg.
func NewStore(cfg config.Config) *grids.Store {
	return grids.New(cfg.GridsDir,
		grids.WithHTTPClient(&http.Client{Timeout: cfg.Download.Timeout}),
		grids.WithChecksums(cfg.Checksums()),
	)
}

// FromConfig wires the grid store and the local process executor described
// by cfg.
func FromConfig(cfg config.Config) *Compiler {
	ex := transform.NewProcessExecutor(cfg.Programs)
	ex.Env = cfg.ProgramEnv
	return &Compiler{
		Store:    NewStore(cfg),
		Executor: ex,
	}
}
