// Package replay implements the page driver interface on top of a JSON
// fixture file, keyed by CDCR number.
//
// A replay driver produces the exact raw bags a live page driver would have
// returned for a previously captured session, which makes full runs
// reproducible without any site interaction. The live browser-driving
// capability stays outside this repository; this driver is the built-in way
// to exercise the full pipeline.
package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/justiceline/cdcr-records/internal/collector"
	"github.com/ubuntu/decorate"
)

// ErrUnknownNumber is returned by Fetch for a CDCR number absent from the
// fixture file.
var ErrUnknownNumber = errors.New("CDCR number not present in replay fixture")

// Driver replays raw records from a fixture file.
type Driver struct {
	bags map[string]collector.RawRecord

	log *slog.Logger
}

// New returns a new replay driver backed by the fixture file at path.
//
// The fixture is a JSON object mapping each CDCR number to the raw bag the
// page driver would return for it.
func New(l *slog.Logger, path string) (d Driver, err error) {
	defer decorate.OnError(&err, "failed to load replay fixture %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return Driver{}, err
	}

	var bags map[string]collector.RawRecord
	if err := json.Unmarshal(data, &bags); err != nil {
		return Driver{}, fmt.Errorf("fixture is not a JSON object keyed by CDCR number: %v", err)
	}

	l.Debug("Loaded replay fixture", "path", path, "records", len(bags))
	return Driver{bags: bags, log: l}, nil
}

// Fetch returns the recorded raw bag for cdcrNumber.
func (d Driver) Fetch(ctx context.Context, cdcrNumber string) (collector.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bag, ok := d.bags[cdcrNumber]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNumber, cdcrNumber)
	}
	return bag, nil
}
