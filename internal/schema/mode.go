// Package schema adapts persisted loan rows across the column-naming
// conventions a backing store might use. The convention is unknown up
// front: the table may carry canonical camelCase names, snake_case names,
// or all-lowercase names (postgres folds unquoted identifiers). The
// adapter detects the convention from a sample row, normalizes any row
// into the canonical shape, and projects canonical payloads into a target
// convention.
package schema

import "github.com/vqtran/loanbook/internal/storage"

// Mode tags a column-naming convention.
type Mode int

const (
	// ModeCamel is the canonical convention: loanAmount, givenAmount, startDate.
	ModeCamel Mode = iota
	// ModeSnake separates words with underscores: loan_amount, given_amount.
	ModeSnake
	// ModeLower is all-lowercase without separators: loanamount, givenamount.
	ModeLower
)

func (m Mode) String() string {
	switch m {
	case ModeSnake:
		return "snake"
	case ModeLower:
		return "lower"
	default:
		return "camel"
	}
}

// Canonical field set of a persisted loan row. Keys outside this set (the
// owner tag) are passed through unchanged in every mode.
var canonical = []string{
	"contractId", "name", "phone", "imei",
	"loanAmount", "givenAmount", "paidTotal", "repayAmount",
	"loanDays", "payInterval", "startDate", "status", "history",
}

// Explicit per-mode renderings. Enumerated rather than derived at runtime
// so the canonical set is fixed in one place.
var snakeName = map[string]string{
	"contractId":  "contract_id",
	"loanAmount":  "loan_amount",
	"givenAmount": "given_amount",
	"paidTotal":   "paid_total",
	"repayAmount": "repay_amount",
	"loanDays":    "loan_days",
	"payInterval": "pay_interval",
	"startDate":   "start_date",
}

var lowerName = map[string]string{
	"contractId":  "contractid",
	"loanAmount":  "loanamount",
	"givenAmount": "givenamount",
	"paidTotal":   "paidtotal",
	"repayAmount": "repayamount",
	"loanDays":    "loandays",
	"payInterval": "payinterval",
	"startDate":   "startdate",
}

// Rename returns the rendering of a canonical field under the given mode.
// Fields with a single-word name and non-canonical keys are unchanged in
// every mode.
func Rename(field string, m Mode) string {
	switch m {
	case ModeSnake:
		if v, ok := snakeName[field]; ok {
			return v
		}
	case ModeLower:
		if v, ok := lowerName[field]; ok {
			return v
		}
	}
	return field
}

// Detect inspects a sample row for the discriminating field's rendering
// under each mode, in priority order camel, snake, lower. An empty sample
// or an absent field defaults to camel.
func Detect(sample storage.Row) Mode {
	if sample == nil {
		return ModeCamel
	}
	if _, ok := sample["givenAmount"]; ok {
		return ModeCamel
	}
	if _, ok := sample["given_amount"]; ok {
		return ModeSnake
	}
	if _, ok := sample["givenamount"]; ok {
		return ModeLower
	}
	return ModeCamel
}

// DetectPrimaryKey resolves the primary-key field from a sample row and
// returns its canonical name: "contractId" when any rendering of the
// contract-id column is present, "id" when the table exposes a bare id
// column instead. Defaults to contractId. Callers render the field into a
// concrete column name per mode via Rename.
func DetectPrimaryKey(sample storage.Row) string {
	for _, pk := range []string{"contractId", "contract_id", "contractid"} {
		if _, ok := sample[pk]; ok {
			return "contractId"
		}
	}
	if _, ok := sample["id"]; ok {
		return "id"
	}
	return "contractId"
}

// Project rewrites the canonical keys of a payload into the target mode's
// convention. Non-canonical keys pass through unchanged.
func Project(payload storage.Row, m Mode) storage.Row {
	out := make(storage.Row, len(payload))
	for k, v := range payload {
		out[Rename(k, m)] = v
	}
	return out
}
