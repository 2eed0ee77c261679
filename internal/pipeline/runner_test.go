package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"ntv2/internal/algorithm"
	"ntv2/internal/datum"
	"ntv2/internal/gdalcmd"
	"ntv2/internal/job"
	"ntv2/internal/transform"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(s string) {
	l.mu.Lock()
	l.calls = append(l.calls, s)
	l.mu.Unlock()
}

type fakeStore struct {
	log *callLog
	err error
}

func (s *fakeStore) Ensure(_ context.Context, assets ...datum.Asset) error {
	for _, a := range assets {
		s.log.add("ensure " + a.File)
	}
	return s.err
}

func (s *fakeStore) Path(file string) string { return "/grids/" + file }

type fakeExecutor struct {
	log *callLog
	cmd *gdalcmd.Command
	err error
}

func (e *fakeExecutor) Execute(_ context.Context, cmd *gdalcmd.Command, fb transform.Feedback) error {
	e.log.add("execute")
	e.cmd = cmd
	fb.Command(cmd.String())
	return e.err
}

func newCompiler() (*Compiler, *callLog, *fakeExecutor) {
	log := &callLog{}
	ex := &fakeExecutor{log: log}
	return &Compiler{Store: &fakeStore{log: log}, Executor: ex}, log, ex
}

func ptRequest() job.Request {
	return job.Request{
		ID:        "pt-1",
		Algorithm: "ptvectortransform",
		Direction: "direct",
		Datum:     "lisboa",
		Grid:      "pt_e89",
		Input:     "lisboa.shp",
		Output:    "pt-tm06.shp",
	}
}

func TestRunner_FetchesGridsBeforeExecuting(t *testing.T) {
	c, log, ex := newCompiler()
	r, err := c.Compile(ptRequest())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	res, err := r.Run(context.Background(), transform.Discard{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"ensure ptLX_e89.gsb", "execute"}
	if strings.Join(log.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", log.calls, want)
	}
	if res.Status != job.StatusOK || res.ID != "pt-1" || res.Algorithm != "ptvectortransform" {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.Contains(ex.cmd.Stages[0].Args[1], "+nadgrids=/grids/ptLX_e89.gsb") {
		t.Fatalf("grid path not taken from the store: %v", ex.cmd.Stages[0].Args)
	}
}

func TestRunner_FetchFailureSkipsExecution(t *testing.T) {
	c, log, _ := newCompiler()
	c.Store.(*fakeStore).err = errors.New("offline")
	r, err := c.Compile(ptRequest())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	res, err := r.Run(context.Background(), transform.Discard{})
	if err == nil || res.Status != job.StatusFailed {
		t.Fatalf("want failure, got %+v %v", res, err)
	}
	for _, c := range log.calls {
		if c == "execute" {
			t.Fatal("tools must not run when grids are missing")
		}
	}
}

func TestRunner_DryRunTouchesNothing(t *testing.T) {
	c, log, _ := newCompiler()
	c.DryRun = true
	fb := &transform.WriterFeedback{W: &strings.Builder{}}
	res, err := c.Do(context.Background(), ptRequest(), fb)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(log.calls) != 0 {
		t.Fatalf("dry run must not fetch or execute, got %v", log.calls)
	}
	if res.Status != job.StatusDryRun || !strings.HasPrefix(res.Command, "ogr2ogr -s_srs ") {
		t.Fatalf("unexpected dry run result %+v", res)
	}
	if got := fb.W.(*strings.Builder).String(); !strings.Contains(got, res.Command) {
		t.Fatalf("dry run must print the command, got %q", got)
	}
}

func TestCompile_ResolvesIndices(t *testing.T) {
	c, _, _ := newCompiler()
	req := ptRequest()
	req.Direction, req.Datum, req.Grid = "1", "4", "0"
	r, err := c.Compile(req)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(r.Command().Stages) != 2 {
		t.Fatalf("PT vector inverse runs in two stages, got %d", len(r.Command().Stages))
	}
	if a := r.Assets(); len(a) != 1 || a[0].File != "ptED_e89.gsb" {
		t.Fatalf("unexpected assets %+v", a)
	}
}

func TestCompile_UserErrors(t *testing.T) {
	c, log, _ := newCompiler()

	unknown := ptRequest()
	unknown.Algorithm = "frvectortransform"
	res, err := c.Do(context.Background(), unknown, transform.Discard{})
	if !errors.Is(err, algorithm.ErrUnknownOption) || res.Status != job.StatusFailed {
		t.Fatalf("unknown algorithm: %+v %v", res, err)
	}

	unsupported := ptRequest()
	unsupported.Datum, unsupported.Grid = "ed50", "pt_etrs89_geo"
	if _, err := c.Compile(unsupported); !errors.Is(err, algorithm.ErrUnsupported) {
		t.Fatalf("want ErrUnsupported, got %v", err)
	}

	out := filepath.Join(t.TempDir(), "existing.gpkg")
	if err := os.WriteFile(out, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	exists := ptRequest()
	exists.Output = out
	if _, err := c.Compile(exists); !errors.Is(err, algorithm.ErrOutputExists) {
		t.Fatalf("want ErrOutputExists, got %v", err)
	}
	if len(log.calls) != 0 {
		t.Fatalf("compile errors must not fetch or execute, got %v", log.calls)
	}
}
