// Package timeouts provides the deadlines used around database and storage
// calls in handlers and tools.
//
//   - Ping: health checks
//   - Short: single-document reads and writes
//   - Medium: list queries and dashboard counts
//   - Long: operations touching several collections (seeding, login)
//   - Upload: streaming a file into object storage
//
// Values start at the defaults below and may be overridden once at startup
// with Configure or ConfigureFromEnv.
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
	DefaultUpload = 2 * time.Minute
)

// Config holds timeout values. Zero fields leave the current value alone.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Upload time.Duration
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

func defaults() Config {
	return Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
		Upload: DefaultUpload,
	}
}

func Ping() time.Duration   { mu.RLock(); defer mu.RUnlock(); return cur.Ping }
func Short() time.Duration  { mu.RLock(); defer mu.RUnlock(); return cur.Short }
func Medium() time.Duration { mu.RLock(); defer mu.RUnlock(); return cur.Medium }
func Long() time.Duration   { mu.RLock(); defer mu.RUnlock(); return cur.Long }
func Upload() time.Duration { mu.RLock(); defer mu.RUnlock(); return cur.Upload }

// Configure overrides the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	apply(&cur, cfg)
}

func apply(dst *Config, src Config) {
	if src.Ping > 0 {
		dst.Ping = src.Ping
	}
	if src.Short > 0 {
		dst.Short = src.Short
	}
	if src.Medium > 0 {
		dst.Medium = src.Medium
	}
	if src.Long > 0 {
		dst.Long = src.Long
	}
	if src.Upload > 0 {
		dst.Upload = src.Upload
	}
}

// Reset restores the defaults. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults()
}

// Current returns a snapshot of the active values.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// ConfigureFromEnv reads CAREHUB_TIMEOUT_PING, _SHORT, _MEDIUM, _LONG and
// _UPLOAD as Go durations. Invalid or non-positive values are ignored.
// It returns how many values were applied.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	read := func(name string, dst *time.Duration) {
		v := os.Getenv("CAREHUB_TIMEOUT_" + name)
		if v == "" {
			return
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
			n++
		}
	}
	read("PING", &cfg.Ping)
	read("SHORT", &cfg.Short)
	read("MEDIUM", &cfg.Medium)
	read("LONG", &cfg.Long)
	read("UPLOAD", &cfg.Upload)
	Configure(cfg)
	return n
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline was what ended the operation.
func WithTimeout(parent context.Context, d time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", d))
		}
		cancel()
	}
}
