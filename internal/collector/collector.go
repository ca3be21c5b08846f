// Package collector is the implementation of the collector component.
// The collector component is responsible for looking up one record per CDCR
// number through a page driver, normalizing the raw driver output into the
// record model, and assembling the ordered result list for the exporters.
package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/justiceline/cdcr-records/internal/record"
	"github.com/ubuntu/decorate"
)

var (
	// ErrNoNumbers is returned when Collect is called without any CDCR numbers.
	ErrNoNumbers = errors.New("no CDCR numbers to look up")

	// ErrEmptyNumber is returned when one of the CDCR numbers is an empty string.
	ErrEmptyNumber = errors.New("CDCR numbers must be non-empty strings")

	// ErrMalformedHearings is returned when a driver hearings payload cannot be
	// decoded into hearing entries. This is a driver contract violation and
	// fails the batch rather than being silently dropped.
	ErrMalformedHearings = errors.New("malformed board of parole hearings payload")
)

// RawRecord is the loosely typed key-value bag returned by a page driver for
// one CDCR number.
//
// Recognized keys are the record JSON field names ("name", "age",
// "admission_date", "current_location", "commitment_county",
// "parole_eligible_date") with string values, plus the hearings list under
// either "hearings" or "board_of_parole_hearings". A hearings payload may be
// a list of hearing bags, or JSON-serialized text for the whole list or for
// individual entries. Missing keys mean the source did not present the field.
type RawRecord map[string]any

// Driver is the page-driving capability consumed by the collector.
//
// Its mechanics (site navigation, element targeting, rendering) are outside
// this repository; implementations only have to honor the RawRecord contract.
type Driver interface {
	// Fetch looks up one CDCR number and returns the raw extracted fields.
	Fetch(ctx context.Context, cdcrNumber string) (RawRecord, error)
}

// Collector looks up CDCR numbers sequentially and assembles records.
type Collector struct {
	driver Driver
	delay  time.Duration

	log *slog.Logger
}

// Config represents the collector specific data needed to collect.
type Config struct {
	// Delay is the pause between two consecutive lookups. The page driver
	// holds a single stateful session, so lookups are never overlapped and
	// a small delay keeps the source site comfortable.
	Delay time.Duration
}

// Sanitize checks that the Config is properly configured.
func (c *Config) Sanitize(l *slog.Logger) error {
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %s", c.Delay)
	}
	return nil
}

// New returns a new Collector using the given page driver.
func New(l *slog.Logger, d Driver, c Config) (Collector, error) {
	l.Debug("Creating new collector", "delay", c.Delay)

	if d == nil {
		return Collector{}, errors.New("page driver cannot be nil")
	}
	if err := c.Sanitize(l); err != nil {
		return Collector{}, err
	}

	return Collector{
		driver: d,
		delay:  c.Delay,
		log:    l,
	}, nil
}

// Collect looks up every CDCR number in order and returns one record per
// number, preserving input order. Duplicated numbers are looked up again and
// kept as independent records.
//
// A lookup failure for one number does not abort the batch: a placeholder
// record with only the CDCR number set is emitted instead. A malformed
// hearings payload does abort the batch, as it indicates the driver broke its
// contract. Collect stops early if ctx is canceled.
func (c Collector) Collect(ctx context.Context, cdcrNumbers []string) (records []record.Record, err error) {
	defer decorate.OnError(&err, "record collection failed")

	if len(cdcrNumbers) == 0 {
		return nil, ErrNoNumbers
	}
	for _, n := range cdcrNumbers {
		if n == "" {
			return nil, ErrEmptyNumber
		}
	}

	records = make([]record.Record, 0, len(cdcrNumbers))
	for i, n := range cdcrNumbers {
		if i > 0 {
			if err := c.pause(ctx); err != nil {
				return nil, err
			}
		}

		c.log.Info("Looking up CDCR number", "cdcr_number", n, "index", i+1, "total", len(cdcrNumbers))

		raw, err := c.driver.Fetch(ctx, n)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.Warn("Lookup failed, emitting placeholder record", "cdcr_number", n, "error", err)
			records = append(records, record.Placeholder(n))
			continue
		}

		r, err := normalize(n, raw)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, nil
}

// pause waits for the configured delay between two lookups, or returns early
// if ctx is canceled.
func (c Collector) pause(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}

	select {
	case <-time.After(c.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// normalize turns a raw driver bag into a record. Missing keys become absent
// fields; hearings payloads are decoded here, once, so the exporters only
// ever see structured entries.
func normalize(cdcrNumber string, raw RawRecord) (record.Record, error) {
	r := record.Placeholder(cdcrNumber)
	if raw == nil {
		return r, nil
	}

	for key, dst := range map[string]**string{
		"name":                 &r.Name,
		"age":                  &r.Age,
		"admission_date":       &r.AdmissionDate,
		"current_location":     &r.CurrentLocation,
		"commitment_county":    &r.CommitmentCounty,
		"parole_eligible_date": &r.ParoleEligibleDate,
	} {
		v, err := stringField(raw, key)
		if err != nil {
			return record.Record{}, fmt.Errorf("record %s: %v", cdcrNumber, err)
		}
		*dst = v
	}

	payload, ok := raw["hearings"]
	if !ok {
		payload = raw["board_of_parole_hearings"]
	}
	hearings, err := decodeHearings(payload)
	if err != nil {
		return record.Record{}, fmt.Errorf("record %s: %w: %v", cdcrNumber, ErrMalformedHearings, err)
	}
	r.Hearings = hearings

	return r, nil
}

// stringField reads an optional string value from the bag. A missing key or a
// nil value means the field is absent; any other non-string value is a
// contract violation.
func stringField(raw map[string]any, key string) (*string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("field %q is not a string (got %T)", key, v)
	}
	return &s, nil
}

// decodeHearings decodes a driver hearings payload into structured entries.
// The driver output shape is not firmly contracted upstream: hearings arrive
// either as structured bags or as JSON-serialized text, for the whole list or
// for individual entries.
func decodeHearings(payload any) ([]record.Hearing, error) {
	switch v := payload.(type) {
	case nil:
		return []record.Hearing{}, nil
	case string:
		var hearings []record.Hearing
		if err := json.Unmarshal([]byte(v), &hearings); err != nil {
			return nil, fmt.Errorf("hearings text is not a JSON hearing list: %v", err)
		}
		if hearings == nil {
			hearings = []record.Hearing{}
		}
		return hearings, nil
	case []any:
		hearings := make([]record.Hearing, 0, len(v))
		for i, entry := range v {
			h, err := decodeHearing(entry)
			if err != nil {
				return nil, fmt.Errorf("hearing %d: %v", i, err)
			}
			hearings = append(hearings, h)
		}
		return hearings, nil
	default:
		return nil, fmt.Errorf("unsupported hearings payload type %T", payload)
	}
}

// decodeHearing decodes one hearing entry, given either as a bag or as
// JSON-serialized text.
func decodeHearing(entry any) (record.Hearing, error) {
	switch v := entry.(type) {
	case string:
		var h record.Hearing
		if err := json.Unmarshal([]byte(v), &h); err != nil {
			return record.Hearing{}, fmt.Errorf("entry text is not a JSON hearing: %v", err)
		}
		return h, nil
	case map[string]any:
		var h record.Hearing
		for key, dst := range map[string]**string{
			"date":    &h.Date,
			"action":  &h.Action,
			"status":  &h.Status,
			"outcome": &h.Outcome,
		} {
			s, err := stringField(v, key)
			if err != nil {
				return record.Hearing{}, err
			}
			*dst = s
		}
		return h, nil
	default:
		return record.Hearing{}, fmt.Errorf("unsupported hearing entry type %T", entry)
	}
}
