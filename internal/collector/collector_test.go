package collector_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/justiceline/cdcr-records/internal/collector"
	"github.com/justiceline/cdcr-records/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDriver serves canned bags per CDCR number and records the lookup order.
type testDriver struct {
	bags map[string]collector.RawRecord
	err  error

	fetched []string
}

func (d *testDriver) Fetch(ctx context.Context, cdcrNumber string) (collector.RawRecord, error) {
	d.fetched = append(d.fetched, cdcrNumber)
	if d.err != nil {
		return nil, d.err
	}
	bag, ok := d.bags[cdcrNumber]
	if !ok {
		return nil, fmt.Errorf("no result for %s", cdcrNumber)
	}
	return bag, nil
}

func str(s string) *string {
	return &s
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		config    collector.Config
		nilDriver bool

		wantErr bool
	}{
		"Default config": {},
		"Positive delay": {config: collector.Config{Delay: time.Second}},

		// Error cases
		"Nil driver errors":     {nilDriver: true, wantErr: true},
		"Negative delay errors": {config: collector.Config{Delay: -time.Second}, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var d collector.Driver
			if !tc.nilDriver {
				d = &testDriver{}
			}

			l := slog.New(slog.NewTextHandler(os.Stderr, nil))
			_, err := collector.New(l, d, tc.config)
			if tc.wantErr {
				require.Error(t, err, "New should have returned an error")
				return
			}
			require.NoError(t, err, "New returned an unexpected error")
		})
	}
}

func TestCollect(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cdcrNumbers []string
		bags        map[string]collector.RawRecord
		driverErr   error

		want    []record.Record
		wantErr error
	}{
		"Single record with structured hearings": {
			cdcrNumbers: []string{"D54803"},
			bags: map[string]collector.RawRecord{
				"D54803": {
					"name":                 "Doe, John",
					"age":                  "45",
					"admission_date":       "01/15/1998",
					"current_location":     "San Quentin Rehabilitation Center",
					"commitment_county":    "Los Angeles",
					"parole_eligible_date": "03/2027",
					"hearings": []any{
						map[string]any{"date": "06/12/2019", "action": "INITIAL", "status": "COMPLETED", "outcome": "DENIED 5 YEARS"},
						map[string]any{"date": "08/03/2024", "action": "SUBSEQUENT", "status": "SCHEDULED"},
					},
				},
			},
			want: []record.Record{{
				CDCRNumber:         "D54803",
				Name:               str("Doe, John"),
				Age:                str("45"),
				AdmissionDate:      str("01/15/1998"),
				CurrentLocation:    str("San Quentin Rehabilitation Center"),
				CommitmentCounty:   str("Los Angeles"),
				ParoleEligibleDate: str("03/2027"),
				Hearings: []record.Hearing{
					{Date: str("06/12/2019"), Action: str("INITIAL"), Status: str("COMPLETED"), Outcome: str("DENIED 5 YEARS")},
					{Date: str("08/03/2024"), Action: str("SUBSEQUENT"), Status: str("SCHEDULED")},
				},
			}},
		},
		"Multiple records preserve input order": {
			cdcrNumbers: []string{"T97214", "D54803"},
			bags: map[string]collector.RawRecord{
				"D54803": {"name": "Doe, John"},
				"T97214": {"name": "Roe, Jane"},
			},
			want: []record.Record{
				{CDCRNumber: "T97214", Name: str("Roe, Jane"), Hearings: []record.Hearing{}},
				{CDCRNumber: "D54803", Name: str("Doe, John"), Hearings: []record.Hearing{}},
			},
		},
		"Duplicate numbers are looked up independently": {
			cdcrNumbers: []string{"D54803", "D54803"},
			bags: map[string]collector.RawRecord{
				"D54803": {"name": "Doe, John"},
			},
			want: []record.Record{
				{CDCRNumber: "D54803", Name: str("Doe, John"), Hearings: []record.Hearing{}},
				{CDCRNumber: "D54803", Name: str("Doe, John"), Hearings: []record.Hearing{}},
			},
		},
		"Missing keys become absent fields": {
			cdcrNumbers: []string{"D54803"},
			bags: map[string]collector.RawRecord{
				"D54803": {"name": "Doe, John", "age": "45", "hearings": []any{}},
			},
			want: []record.Record{{
				CDCRNumber: "D54803",
				Name:       str("Doe, John"),
				Age:        str("45"),
				Hearings:   []record.Hearing{},
			}},
		},
		"Hearings under the long key are accepted": {
			cdcrNumbers: []string{"D54803"},
			bags: map[string]collector.RawRecord{
				"D54803": {
					"board_of_parole_hearings": []any{
						map[string]any{"date": "06/12/2019"},
					},
				},
			},
			want: []record.Record{{
				CDCRNumber: "D54803",
				Hearings:   []record.Hearing{{Date: str("06/12/2019")}},
			}},
		},
		"Hearings serialized as text are decoded": {
			cdcrNumbers: []string{"D54803"},
			bags: map[string]collector.RawRecord{
				"D54803": {
					"hearings": `[{"date":"06/12/2019","action":"INITIAL","status":"COMPLETED","outcome":"DENIED 5 YEARS"}]`,
				},
			},
			want: []record.Record{{
				CDCRNumber: "D54803",
				Hearings: []record.Hearing{
					{Date: str("06/12/2019"), Action: str("INITIAL"), Status: str("COMPLETED"), Outcome: str("DENIED 5 YEARS")},
				},
			}},
		},
		"Hearing entries serialized as text are decoded": {
			cdcrNumbers: []string{"D54803"},
			bags: map[string]collector.RawRecord{
				"D54803": {
					"hearings": []any{
						`{"date":"06/12/2019","action":"INITIAL"}`,
						map[string]any{"date": "08/03/2024"},
					},
				},
			},
			want: []record.Record{{
				CDCRNumber: "D54803",
				Hearings: []record.Hearing{
					{Date: str("06/12/2019"), Action: str("INITIAL")},
					{Date: str("08/03/2024")},
				},
			}},
		},
		"Lookup failure emits placeholder and continues": {
			cdcrNumbers: []string{"A11111", "B22222"},
			bags: map[string]collector.RawRecord{
				"A11111": {"name": "Doe, John"},
				// B22222 has no result.
			},
			want: []record.Record{
				{CDCRNumber: "A11111", Name: str("Doe, John"), Hearings: []record.Hearing{}},
				record.Placeholder("B22222"),
			},
		},
		"All lookups failing still emits all placeholders": {
			cdcrNumbers: []string{"A11111", "B22222"},
			driverErr:   fmt.Errorf("session expired"),
			want: []record.Record{
				record.Placeholder("A11111"),
				record.Placeholder("B22222"),
			},
		},

		// Error cases
		"No numbers errors": {
			cdcrNumbers: []string{},
			wantErr:     collector.ErrNoNumbers,
		},
		"Empty number errors": {
			cdcrNumbers: []string{"D54803", ""},
			wantErr:     collector.ErrEmptyNumber,
		},
		"Malformed hearings text errors": {
			cdcrNumbers: []string{"D54803"},
			bags: map[string]collector.RawRecord{
				"D54803": {"hearings": `not json at all`},
			},
			wantErr: collector.ErrMalformedHearings,
		},
		"Malformed hearing entry text errors": {
			cdcrNumbers: []string{"D54803"},
			bags: map[string]collector.RawRecord{
				"D54803": {"hearings": []any{`{broken`}},
			},
			wantErr: collector.ErrMalformedHearings,
		},
		"Unsupported hearings payload type errors": {
			cdcrNumbers: []string{"D54803"},
			bags: map[string]collector.RawRecord{
				"D54803": {"hearings": 42},
			},
			wantErr: collector.ErrMalformedHearings,
		},
		"Unsupported hearing entry type errors": {
			cdcrNumbers: []string{"D54803"},
			bags: map[string]collector.RawRecord{
				"D54803": {"hearings": []any{42}},
			},
			wantErr: collector.ErrMalformedHearings,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			d := &testDriver{bags: tc.bags, err: tc.driverErr}

			l := slog.New(slog.NewTextHandler(os.Stderr, nil))
			c, err := collector.New(l, d, collector.Config{})
			require.NoError(t, err, "Setup: failed to create collector")

			got, err := c.Collect(context.Background(), tc.cdcrNumbers)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr, "Collect should have returned the expected error")
				return
			}
			require.NoError(t, err, "Collect returned an unexpected error")

			require.Equal(t, tc.want, got, "Collect should return the expected records")
			require.Len(t, got, len(tc.cdcrNumbers), "Collect should emit one record per CDCR number")
		})
	}
}

func TestCollectNonStringFieldErrors(t *testing.T) {
	t.Parallel()

	d := &testDriver{bags: map[string]collector.RawRecord{
		"D54803": {"age": 45},
	}}

	l := slog.New(slog.NewTextHandler(os.Stderr, nil))
	c, err := collector.New(l, d, collector.Config{})
	require.NoError(t, err, "Setup: failed to create collector")

	_, err = c.Collect(context.Background(), []string{"D54803"})
	require.Error(t, err, "Collect should reject non-string scalar fields")
	assert.Contains(t, err.Error(), "age", "error should name the offending field")
}

func TestCollectCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &testDriver{}
	l := slog.New(slog.NewTextHandler(os.Stderr, nil))
	c, err := collector.New(l, d, collector.Config{Delay: time.Minute})
	require.NoError(t, err, "Setup: failed to create collector")

	_, err = c.Collect(ctx, []string{"A11111", "B22222"})
	require.ErrorIs(t, err, context.Canceled, "Collect should stop when the context is canceled")
}
