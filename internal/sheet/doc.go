// Package sheet provides the data model and HTTP client for the number
// sheet service.
//
// # Overview
//
// The sheet service fronts a shared spreadsheet of phone numbers. Each row
// carries an MSISDN, an assignment date, a category, an owner, and an
// Open/Reserved status. This package defines those types, the composite
// row identity, the enumerated column schema, and the API client used to
// fetch snapshots and submit status changes.
//
// # Row Identity
//
// The sheet has no surrogate ids. A row is identified by the composite key
// (MSISDN, assignDate), represented by the Key type. Keys are carried
// end-to-end: the state store indexes by Key, edit submissions address the
// remote row by Key, and no layer ever falls back to a positional index,
// which would go stale the moment a refresh reorders the collection.
//
// Composite keys are expected to be unique within one snapshot. Duplicate
// keys are a data-quality fault in the sheet itself; the state store
// detects and reports them (see internal/state) rather than this package.
//
// # Number Localization
//
// Numbers are stored with a country-code prefix ("9715551234") but read
// aloud and dialed locally ("05551234"). Localize performs that rewrite:
// strip the configured prefix, prepend a zero. The transform is idempotent
// so display code can apply it without tracking whether a value has
// already been localized.
//
// # Status Values
//
// Status is nominally the two-value enum Open | Reserved, but the backing
// spreadsheet is hand-edited and carries historical junk. Unmarshaling
// normalizes case-insensitively to the canonical forms and preserves
// anything unrecognized verbatim, so dirty rows remain visible and
// claimable instead of being dropped or misreported.
//
// # Column Schema
//
// fields.go enumerates the five columns with per-field metadata (header
// title, search participation, string form). Search and sort consume this
// schema instead of reflecting over the Number struct, which keeps the
// "match any field" search behavior explicit and stable.
//
// # API Endpoints
//
//   - GET /api/numbers: full snapshot of all rows
//   - POST /api/numbers/status: set one row's status, addressed by key
//
// Snapshots are always fetched whole. The sheet is small (hundreds to low
// thousands of rows) and wholesale replacement is what keeps client state
// reconciliation simple; see internal/state.
//
// # Error Handling
//
// Transport failures (refused connection, timeout, malformed JSON) are
// returned as wrapped errors. Non-2xx responses become *APIError carrying
// the status code and any message from the body. APIError.Validation
// distinguishes 4xx rejections, which mean the request itself was bad
// (usually a stale key after a remote edit), from 5xx service faults.
// Callers use errors.As to branch on the distinction.
//
// # Network Assumptions
//
// The client assumes a trusted local or VPN network: no authentication,
// plain HTTP by default (HTTPS works if configured), 5-second request
// timeout. These match the deployment this tool was built for, a small
// operations team sharing one sheet service.
package sheet
