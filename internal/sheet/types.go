package sheet

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultCountryCode is the prefix stripped when localizing numbers for
// display. The pool this tool was built for is UAE-based.
const DefaultCountryCode = "971"

// Status is the reservation state of a number. The sheet stores free-form
// strings; inbound values are normalized case-insensitively to the two
// canonical forms and anything else is kept verbatim.
type Status string

const (
	StatusOpen     Status = "Open"
	StatusReserved Status = "Reserved"
)

// UnmarshalJSON normalizes the wire form so "open", "OPEN" and "Open"
// compare equal everywhere downstream.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}
	*s = normalizeStatus(raw)
	return nil
}

func normalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "open":
		return StatusOpen
	case "reserved":
		return StatusReserved
	}
	return Status(strings.TrimSpace(raw))
}

// Open reports whether the number is available for reservation.
func (s Status) Open() bool { return s == StatusOpen }

// Reserved reports whether the number is held by an owner.
func (s Status) Reserved() bool { return s == StatusReserved }

// Toggled returns the opposite reservation state. Unknown statuses toggle
// to Reserved so an operator can always claim a row with a dirty status.
func (s Status) Toggled() Status {
	if s.Reserved() {
		return StatusOpen
	}
	return StatusReserved
}

// Key is a row's identity: the sheet has no surrogate ids, so a number and
// its assignment date together name a row. Keys travel end-to-end through
// edits; positional indexes are never used as identity.
type Key struct {
	MSISDN     string `json:"msisdn"`
	AssignDate string `json:"assignDate"`
}

// String renders the key for log lines.
func (k Key) String() string {
	return k.MSISDN + "@" + k.AssignDate
}

// Number is one row of the sheet.
type Number struct {
	MSISDN     string `json:"msisdn"`
	AssignDate string `json:"assignDate"`
	Category   string `json:"category"`
	Owner      string `json:"owner"`
	Status     Status `json:"status"`
}

// Key returns the row's composite identity.
func (n Number) Key() Key {
	return Key{MSISDN: n.MSISDN, AssignDate: n.AssignDate}
}

// Local returns the number in display form for the given country code.
func (n Number) Local(countryCode string) string {
	return Localize(n.MSISDN, countryCode)
}

// Localize rewrites a stored MSISDN into its local display form: the
// country-code prefix is replaced with a leading zero, so "9715551234"
// becomes "05551234". Numbers without the prefix pass through untouched,
// which makes the transform idempotent.
func Localize(msisdn, countryCode string) string {
	if countryCode == "" || !strings.HasPrefix(msisdn, countryCode) {
		return msisdn
	}
	return "0" + strings.TrimPrefix(msisdn, countryCode)
}
