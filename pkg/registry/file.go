package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Retry bounds how long registry files are waited on while another build
// step holds them.
type Retry struct {
	Attempts int
	Backoff  time.Duration
	// Logger receives a debug record per failed attempt. Nil uses slog.Default.
	Logger *slog.Logger
}

var DefaultRetry = Retry{Attempts: 1000, Backoff: 50 * time.Millisecond}

func (r Retry) normalize() Retry {
	if r.Attempts < 1 {
		r.Attempts = 1
	}
	if r.Backoff < 0 {
		r.Backoff = 0
	}
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
	return r
}

// WithLogger returns r logging through l.
func (r Retry) WithLogger(l *slog.Logger) Retry {
	r.Logger = l
	return r
}

// do runs fn until it succeeds, the error says the file does not exist or
// may not be accessed, or the attempts are spent.
func (r Retry) do(path string, fn func() error) error {
	r = r.normalize()
	var err error
	for attempt := 1; attempt <= r.Attempts; attempt++ {
		if err = fn(); err == nil || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return err
		}
		if attempt < r.Attempts {
			r.Logger.Debug("registry file busy, retrying", "path", path, "attempt", attempt, "err", err)
			time.Sleep(r.Backoff)
		}
	}
	return fmt.Errorf("%w: %s after %d attempts: %w", ErrFileLocked, path, r.Attempts, err)
}

// Save writes r to path atomically, choosing the format from the file name.
func Save(path string, h Header, r *Registry, retry Retry) error {
	format, ok := FormatOf(path)
	if !ok {
		return fmt.Errorf("%s: not a registry file name", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return retry.do(path, func() error {
		f, err := os.CreateTemp(filepath.Dir(path), ".reflregistry-*")
		if err != nil {
			return err
		}
		tmp := f.Name()
		if err := Encode(f, format, h, r); err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
			return err
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(tmp)
			return err
		}
		if err := os.Rename(tmp, path); err != nil {
			_ = os.Remove(tmp)
			return err
		}
		return nil
	})
}

// Load reads the registry at path.
func Load(path string, retry Retry, opts ...Option) (*Registry, Header, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, Header{}, fmt.Errorf("%s: not a registry file name", path)
	}
	var f *os.File
	err := retry.do(path, func() error {
		var err error
		f, err = os.Open(path)
		return err
	})
	if err != nil {
		return nil, Header{}, err
	}
	defer func() {
		_ = f.Close()
	}()
	r, h, err := Decode(f, format, opts...)
	if err != nil {
		return nil, h, fmt.Errorf("%s: %w", path, err)
	}
	return r, h, nil
}
