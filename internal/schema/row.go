package schema

import (
	"github.com/vqtran/loanbook/internal/loan"
	"github.com/vqtran/loanbook/internal/storage"
)

// ToRow renders a loan as a canonical row ready for projection. The owner
// tag keeps its name in every mode.
func ToRow(l loan.Loan) storage.Row {
	history := l.History
	if history == nil {
		history = []loan.PaymentEntry{}
	}
	return storage.Row{
		"contractId":  l.ContractID,
		"name":        l.Name,
		"phone":       l.Phone,
		"imei":        l.IMEI,
		"loanAmount":  l.LoanAmount,
		"givenAmount": l.GivenAmount,
		"paidTotal":   l.PaidTotal,
		"repayAmount": l.RepayAmount,
		"loanDays":    int64(l.LoanDays),
		"payInterval": int64(l.PayInterval),
		"startDate":   l.StartDate,
		"status":      string(l.Status),
		"history":     history,
		"owner":       l.Owner.String(),
	}
}
