// Package batch loads batch files, the TOML run manifests listing the CDCR
// numbers to look up in one run alongside optional run settings.
package batch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ubuntu/decorate"
)

// ErrNoNumbers is returned when a batch file does not list any CDCR numbers.
var ErrNoNumbers = errors.New("batch file does not list any CDCR numbers")

// Batch is the decoded content of a batch file.
//
// Delay and OutputDir are optional overrides for the matching command line
// flags. DelaySet tells an explicit (possibly zero) delay apart from an
// absent one.
type Batch struct {
	CDCRNumbers []string
	Delay       time.Duration
	DelaySet    bool
	OutputDir   string
}

// bFile is the on-disk shape of a batch file. The delay is kept as free text
// ("1s", "500ms", ...) and parsed on load.
type bFile struct {
	CDCRNumbers []string `toml:"cdcr_numbers"`
	Delay       string   `toml:"delay"`
	OutputDir   string   `toml:"output_dir"`
}

// Load reads and decodes the batch file at path.
//
// Unknown keys are rejected, so a typo in a manifest fails the run instead of
// being silently ignored.
func Load(l *slog.Logger, path string) (b Batch, err error) {
	defer decorate.OnError(&err, "failed to load batch file %s", path)

	var f bFile
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return Batch{}, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Batch{}, fmt.Errorf("unknown keys: %v", undecoded)
	}

	if len(f.CDCRNumbers) == 0 {
		return Batch{}, ErrNoNumbers
	}
	for _, n := range f.CDCRNumbers {
		if n == "" {
			return Batch{}, errors.New("cdcr_numbers must not contain empty strings")
		}
	}

	b = Batch{
		CDCRNumbers: f.CDCRNumbers,
		OutputDir:   f.OutputDir,
	}
	if f.Delay != "" {
		d, err := time.ParseDuration(f.Delay)
		if err != nil {
			return Batch{}, fmt.Errorf("invalid delay: %v", err)
		}
		if d < 0 {
			return Batch{}, fmt.Errorf("delay must not be negative, got %s", d)
		}
		b.Delay, b.DelaySet = d, true
	}

	l.Debug("Loaded batch file", "path", path, "numbers", len(b.CDCRNumbers))
	return b, nil
}
