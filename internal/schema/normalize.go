package schema

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"

	"github.com/vqtran/loanbook/internal/loan"
	"github.com/vqtran/loanbook/internal/storage"
)

// Alias casings seen in the wild for a few display fields, checked after
// the three mode renderings.
var aliases = map[string][]string{
	"name":   {"Name"},
	"phone":  {"Phone"},
	"imei":   {"IMEI"},
	"status": {"Status"},
}

// Normalize resolves every canonical field of a raw row across the three
// naming conventions (and alias casings) and applies defaults in a single
// pass: numeric fields 0, history empty, status Active, identifier 0 when
// unassigned. The result is a fully populated canonical Loan.
func Normalize(row storage.Row) loan.Loan {
	l := loan.Loan{
		ContractID:  asInt64(lookup(row, "contractId")),
		Name:        asString(lookup(row, "name")),
		Phone:       asString(lookup(row, "phone")),
		IMEI:        asString(lookup(row, "imei")),
		LoanAmount:  asInt64(lookup(row, "loanAmount")),
		GivenAmount: asInt64(lookup(row, "givenAmount")),
		PaidTotal:   asInt64(lookup(row, "paidTotal")),
		RepayAmount: asInt64(lookup(row, "repayAmount")),
		LoanDays:    int(asInt64(lookup(row, "loanDays"))),
		PayInterval: int(asInt64(lookup(row, "payInterval"))),
		StartDate:   asString(lookup(row, "startDate")),
		History:     asHistory(lookup(row, "history")),
	}
	if s := asString(lookup(row, "status")); s != "" {
		l.Status = loan.Status(s)
	} else {
		l.Status = loan.StatusActive
	}
	// contractId absent under every rendering may still be exposed as "id"
	if l.ContractID == 0 {
		l.ContractID = asInt64(row["id"])
	}
	l.Owner = asUUID(row["owner"])
	return l
}

// lookup resolves a canonical field by checking its rendering under each
// mode in priority order, then any alias casings.
func lookup(row storage.Row, field string) any {
	for _, m := range []Mode{ModeCamel, ModeSnake, ModeLower} {
		if v, ok := row[Rename(field, m)]; ok && v != nil {
			return v
		}
	}
	for _, a := range aliases[field] {
		if v, ok := row[a]; ok && v != nil {
			return v
		}
	}
	return nil
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	}
	return 0
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// asHistory accepts the shapes history arrives in: the typed slice built by
// the service, generic JSON decoding ([]any of maps), or raw JSON bytes
// from a store driver. Anything else yields an empty sequence.
func asHistory(v any) []loan.PaymentEntry {
	switch h := v.(type) {
	case []loan.PaymentEntry:
		out := make([]loan.PaymentEntry, len(h))
		copy(out, h)
		return out
	case []any:
		out := make([]loan.PaymentEntry, 0, len(h))
		for _, e := range h {
			m, ok := e.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, loan.PaymentEntry{
				Date:           asString(m["date"]),
				Amount:         asInt64(m["amount"]),
				RemainingAfter: asInt64(m["remaining"]),
			})
		}
		return out
	case []byte:
		var entries []loan.PaymentEntry
		if err := json.Unmarshal(h, &entries); err == nil {
			return entries
		}
	}
	return []loan.PaymentEntry{}
}

func asUUID(v any) uuid.UUID {
	switch o := v.(type) {
	case uuid.UUID:
		return o
	case string:
		if id, err := uuid.Parse(o); err == nil {
			return id
		}
	case [16]byte:
		return uuid.UUID(o)
	}
	return uuid.Nil
}
