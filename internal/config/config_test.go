package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdir mirrors testing.T.Chdir (Go 1.24+): it changes the working
// directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoad_FileEnvAndDefaults(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, "ntv2.yml", `schema_version: v1
grids_dir: grids
programs:
  ogr2ogr: /opt/gdal/bin/ogr2ogr
program_env:
  - GDAL_NUM_THREADS=ALL_CPUS
download:
  timeout: 30s
  checksums:
    - file: AT_GIS_GRID.gsb
      sha256: ABCDEF
serve:
  queue: kafka_source.yml
`)
	t.Setenv("NTV2__SERVE__GRPC_PORT", "7171")
	t.Setenv("NTV2__LOG__LEVEL", "debug")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GridsDir != filepath.Join(dir, "grids") {
		t.Fatalf("grids_dir must resolve against the config file, got %q", cfg.GridsDir)
	}
	if cfg.Programs["ogr2ogr"] != "/opt/gdal/bin/ogr2ogr" {
		t.Fatalf("programs: %v", cfg.Programs)
	}
	if len(cfg.ProgramEnv) != 1 || cfg.ProgramEnv[0] != "GDAL_NUM_THREADS=ALL_CPUS" {
		t.Fatalf("program_env: %v", cfg.ProgramEnv)
	}
	if cfg.Download.Timeout != 30*time.Second {
		t.Fatalf("timeout: %v", cfg.Download.Timeout)
	}
	if got := cfg.Checksums()["AT_GIS_GRID.gsb"]; got != "abcdef" {
		t.Fatalf("checksums: %v", cfg.Checksums())
	}
	if cfg.Serve.GRPCPort != 7171 || cfg.Log.Level != "debug" {
		t.Fatalf("env override not applied: %+v %+v", cfg.Serve, cfg.Log)
	}
	if cfg.Serve.MetricsPort != 9100 || cfg.Serve.QueueDriver != "sarama" || len(cfg.Serve.Sinks) != 1 {
		t.Fatalf("defaults not applied: %+v", cfg.Serve)
	}
	if cfg.Serve.Queue != filepath.Join(dir, "kafka_source.yml") {
		t.Fatalf("queue path: %q", cfg.Serve.Queue)
	}
}

func TestLoad_NoFileUsesCacheDir(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != "" || filepath.Base(cfg.GridsDir) != "grids" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("an explicit config path must exist")
	}
}

func TestLoad_InvalidSchema(t *testing.T) {
	p := write(t, t.TempDir(), "ntv2.yml", "schema_version: v9\n")
	if _, err := Load(p); !errors.Is(err, ErrSchema) {
		t.Fatalf("want ErrSchema, got %v", err)
	}
}

func TestLoadJobSpec_DefaultsAndRelativePaths(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, "jobs.yml", `schema_version: v1
defaults:
  algorithm: atvectortransform
  grid: at_gis_grid
  direction: inverse
jobs:
  - datum: gk_m31
    input: data/roads.shp
    output: out/roads.shp
  - id: rivers
    direction: direct
    datum: "0"
    input: /abs/rivers.shp
    output: out/rivers.gpkg
`)
	jobs, err := LoadJobSpec(p)
	if err != nil {
		t.Fatalf("LoadJobSpec: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("want 2 jobs, got %d", len(jobs))
	}
	a, b := jobs[0], jobs[1]
	if a.Algorithm != "atvectortransform" || a.Grid != "at_gis_grid" || a.Direction != "inverse" {
		t.Fatalf("defaults not merged: %+v", a)
	}
	if a.Input != filepath.Join(dir, "data/roads.shp") || a.Output != filepath.Join(dir, "out/roads.shp") {
		t.Fatalf("relative paths not resolved: %+v", a)
	}
	if a.ID != "jobs.yml#1" {
		t.Fatalf("generated id: %q", a.ID)
	}
	if b.ID != "rivers" || b.Direction != "direct" || b.Input != "/abs/rivers.shp" {
		t.Fatalf("explicit fields must win: %+v", b)
	}
}

func TestLoadJobSpec_Rejects(t *testing.T) {
	dir := t.TempDir()
	bad := write(t, dir, "v9.yml", "schema_version: v9\njobs: [{algorithm: x, input: a, output: b}]\n")
	if _, err := LoadJobSpec(bad); !errors.Is(err, ErrSchema) {
		t.Fatalf("want ErrSchema, got %v", err)
	}
	empty := write(t, dir, "empty.yml", "schema_version: v1\njobs: []\n")
	if _, err := LoadJobSpec(empty); err == nil {
		t.Fatal("want error for a job file without jobs")
	}
	noOut := write(t, dir, "noout.yml", "jobs: [{algorithm: esrastertransform, input: a.tif}]\n")
	if _, err := LoadJobSpec(noOut); err == nil {
		t.Fatal("want validation error for missing output")
	}
}

func TestLoadKafkaSinkConfig(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, "sink.yml", "brokers: [localhost:9092]\ntopic: ntv2.results\nrequired_acks: -1\n")
	c, err := LoadKafkaSinkConfig(p)
	if err != nil {
		t.Fatalf("LoadKafkaSinkConfig: %v", err)
	}
	if c.Topic != "ntv2.results" || c.Acks == nil || *c.Acks != -1 {
		t.Fatalf("unexpected %+v", c)
	}
	if _, err := LoadKafkaSinkConfig(write(t, dir, "bad.yml", "topic: x\n")); err == nil {
		t.Fatal("want error without brokers")
	}
}
