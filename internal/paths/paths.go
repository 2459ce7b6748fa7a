package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultBaseDir = "out"

	ScriptFilename = "briefing.md"
	AudioFilename  = "briefing.mp3"
	MetaFilename   = "meta.json"
)

// Builder lays out generated briefings under Base (default "out").
type Builder struct {
	Base string
}

func New(base string) *Builder {
	if base == "" {
		base = defaultBaseDir
	}
	return &Builder{Base: base}
}

// OutDir returns the date-based output directory: Base/YYYY/MM/DD
func (b *Builder) OutDir(t time.Time) string {
	y, m, d := t.UTC().Date()
	return filepath.Join(b.Base, fmt.Sprintf("%04d", y), fmt.Sprintf("%02d", int(m)), fmt.Sprintf("%02d", d))
}

func (b *Builder) BriefingScript(t time.Time) string {
	return filepath.Join(b.OutDir(t), ScriptFilename)
}

func (b *Builder) BriefingAudio(t time.Time) string {
	return filepath.Join(b.OutDir(t), AudioFilename)
}

func (b *Builder) BriefingMeta(t time.Time) string {
	return filepath.Join(b.OutDir(t), MetaFilename)
}

// EnsureOutDir creates the date-based directory if it does not exist.
func (b *Builder) EnsureOutDir(t time.Time) error {
	return os.MkdirAll(b.OutDir(t), 0o755)
}

// ParseDate reads a YYYY-MM-DD date, defaulting to now when s is empty.
func ParseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// CheckOverwrite enforces overwrite behavior. If any path exists and overwrite is false, returns error.
func CheckOverwrite(paths []string, overwrite bool) error {
	if overwrite {
		return nil
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("refusing to overwrite existing file: %s (use --overwrite)", p)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking file: %s: %w", p, err)
		}
	}
	return nil
}
