// Package grids is the local store of NTv2 grid files. Files are addressed
// by name under one directory; a missing file is downloaded once from its
// fixed URL and installed with an atomic rename.
package grids

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"ntv2/internal/datum"
	"ntv2/internal/logging"
	"ntv2/internal/telemetry"
)

var (
	ErrDownload = errors.New("grid download failed")
	ErrChecksum = errors.New("grid checksum mismatch")
)

type Store struct {
	dir       string
	client    *http.Client
	checksums map[string]string

	group singleflight.Group
}

type Option func(*Store)

func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) { s.client = c }
}

// WithChecksums pins grid files to SHA-256 digests (hex, keyed by file
// name). Files without an entry are accepted on presence alone.
func WithChecksums(sums map[string]string) Option {
	return func(s *Store) { s.checksums = sums }
}

func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		client: &http.Client{Timeout: 10 * time.Minute},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Path is the local path of a grid file, as written into +nadgrids.
func (s *Store) Path(file string) string {
	p := filepath.Join(s.dir, file)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func (s *Store) Present(file string) bool {
	fi, err := os.Stat(s.Path(file))
	return err == nil && fi.Mode().IsRegular()
}

// Ensure makes every asset present locally. Present files cause no network
// traffic; concurrent calls for the same missing file share one download.
func (s *Store) Ensure(ctx context.Context, assets ...datum.Asset) error {
	for _, a := range assets {
		if s.Present(a.File) {
			logging.L().Debug("grid present", "file", a.File)
			continue
		}
		// The shared download outlives any one caller's context; a caller
		// that gives up only stops waiting for it.
		ch := s.group.DoChan(a.File, func() (any, error) {
			if s.Present(a.File) {
				return nil, nil
			}
			return nil, s.download(context.WithoutCancel(ctx), a)
		})
		select {
		case res := <-ch:
			if res.Err != nil {
				return res.Err
			}
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", a.File, ctx.Err())
		}
	}
	return nil
}

func (s *Store) download(ctx context.Context, a datum.Asset) (err error) {
	log := logging.L().With("file", a.File, "url", a.URL)
	start := time.Now()
	defer func() {
		telemetry.GridDownloads.WithLabelValues(a.File, telemetry.Result(err)).Inc()
	}()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("grid store %s: %w", s.dir, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return err
	}
	log.Info("downloading grid")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", a.File, ErrDownload, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %s: %w", a.URL, resp.Status, ErrDownload)
	}

	tmp, err := os.CreateTemp(s.dir, a.File+".part-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w: %v", a.File, ErrDownload, err)
	}

	if want, ok := s.checksums[a.File]; ok {
		got := hex.EncodeToString(h.Sum(nil))
		if !strings.EqualFold(strings.TrimSpace(want), got) {
			return fmt.Errorf("%s: want %s, got %s: %w", a.File, want, got, ErrChecksum)
		}
	}

	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), s.Path(a.File)); err != nil {
		return err
	}
	telemetry.GridDownloadBytes.Add(float64(n))
	log.Info("grid installed", "bytes", n, "took", time.Since(start).Round(time.Millisecond))
	return nil
}
