// Package record defines the inmate record model shared by the collector and
// the exporters.
//
// A Record is assembled once per queried CDCR number and is never mutated
// afterwards. Every optional field is kept as free text exactly as the source
// presented it: values are never parsed, reformatted or summarized here.
package record

// Record holds the extracted fields for one CDCR number, including the full
// Board of Parole Hearings history.
//
// Optional fields are nil when the source did not present them. They marshal
// to JSON null, never to a missing key, so the key set is identical across
// records. Hearings is never nil; a record without hearings carries an empty
// slice, which marshals to an empty JSON array.
type Record struct {
	CDCRNumber         string    `json:"cdcr_number"`
	Name               *string   `json:"name"`
	Age                *string   `json:"age"`
	AdmissionDate      *string   `json:"admission_date"`
	CurrentLocation    *string   `json:"current_location"`
	CommitmentCounty   *string   `json:"commitment_county"`
	ParoleEligibleDate *string   `json:"parole_eligible_date"`
	Hearings           []Hearing `json:"board_of_parole_hearings"`
}

// Hearing is one row of the Board of Parole Hearings actions table.
// Row order matches the order presented by the source.
type Hearing struct {
	Date    *string `json:"date"`
	Action  *string `json:"action"`
	Status  *string `json:"status"`
	Outcome *string `json:"outcome"`
}

// Placeholder returns the record emitted when a lookup produced no data:
// only the CDCR number is set, all optional fields are absent and the
// hearings list is empty.
func Placeholder(cdcrNumber string) Record {
	return Record{
		CDCRNumber: cdcrNumber,
		Hearings:   []Hearing{},
	}
}

// StringOrEmpty renders an optional field for tabular exports: the value if
// present, an empty string otherwise.
func StringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
