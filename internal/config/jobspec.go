package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"ntv2/internal/job"
	"ntv2/internal/jobspec"
)

// LoadJobSpec parses a batch job file, validates schema_version and returns
// the jobs with defaults applied and relative input/output paths resolved
// against the file's directory.
func LoadJobSpec(path string) ([]job.Request, error) {
	var f jobspec.File
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("job file %s: %w", path, err)
	}
	if f.SchemaVersion == "" {
		f.SchemaVersion = SupportedSchema
	}
	if f.SchemaVersion != SupportedSchema {
		return nil, fmt.Errorf("job file schema_version %q (want %q): %w", f.SchemaVersion, SupportedSchema, ErrSchema)
	}
	if len(f.Jobs) == 0 {
		return nil, fmt.Errorf("job file %s: no jobs", path)
	}

	dir := filepath.Dir(path)
	out := make([]job.Request, 0, len(f.Jobs))
	for i, j := range f.Jobs {
		r := f.Merge(j)
		if r.ID == "" {
			r.ID = fmt.Sprintf("%s#%d", filepath.Base(path), i+1)
		}
		r.Input = resolveAgainst(dir, r.Input)
		r.Output = resolveAgainst(dir, r.Output)
		if err := r.Validate(); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func resolveAgainst(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
