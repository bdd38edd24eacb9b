package httpapi

import (
	"time"

	"github.com/vqtran/loanbook/internal/loan"
	"github.com/vqtran/loanbook/internal/service/book"
)

type loanRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	IMEI        string `json:"imei"`
	LoanAmount  int64  `json:"loan_amount"`
	GivenAmount int64  `json:"given_amount"`
	LoanDays    int    `json:"loan_days"`
	PayInterval int    `json:"pay_interval"`
	StartDate   string `json:"start_date"`
}

func (r loanRequest) terms() loan.Terms {
	return loan.Terms{
		Name:        r.Name,
		Phone:       r.Phone,
		IMEI:        r.IMEI,
		LoanAmount:  r.LoanAmount,
		GivenAmount: r.GivenAmount,
		LoanDays:    r.LoanDays,
		PayInterval: r.PayInterval,
		StartDate:   r.StartDate,
	}
}

type paymentRequest struct {
	Amount int64 `json:"amount"`
	// Date defaults to today when omitted.
	Date string `json:"date,omitempty"`
}

type paymentResponse struct {
	Date           string `json:"date"`
	Amount         int64  `json:"amount"`
	RemainingAfter int64  `json:"remaining"`
}

type loanResponse struct {
	ContractID  int64             `json:"contract_id"`
	ContractNo  string            `json:"contract_no"`
	Name        string            `json:"name"`
	Phone       string            `json:"phone"`
	IMEI        string            `json:"imei"`
	LoanAmount  int64             `json:"loan_amount"`
	GivenAmount int64             `json:"given_amount"`
	PaidTotal   int64             `json:"paid_total"`
	RepayAmount int64             `json:"repay_amount"`
	LoanDays    int               `json:"loan_days"`
	PayInterval int               `json:"pay_interval"`
	StartDate   string            `json:"start_date"`
	Status      loan.Status       `json:"status"`
	History     []paymentResponse `json:"history"`
	// Derived schedule position, omitted when the terms cannot produce one.
	PerCycleAmount *int64  `json:"per_cycle_amount,omitempty"`
	NextDueDate    *string `json:"next_due_date,omitempty"`
	DaysUntilDue   *int    `json:"days_until_due,omitempty"`
	OverdueCycles  *int    `json:"overdue_cycles,omitempty"`
}

type listLoansResponse struct {
	Items []loanResponse `json:"items"`
	// TotalLoanAmount is the portfolio sum of stated principals.
	TotalLoanAmount int64 `json:"total_loan_amount"`
}

type warningResponse struct {
	ContractID    int64            `json:"contract_id"`
	ContractNo    string           `json:"contract_no"`
	Kind          book.WarningKind `json:"kind"`
	OverdueCycles int              `json:"overdue_cycles,omitempty"`
	DaysUntilDue  *int             `json:"days_until_due,omitempty"`
}

func toLoanResponse(l loan.Loan, today time.Time) loanResponse {
	history := make([]paymentResponse, len(l.History))
	for i, h := range l.History {
		history[i] = paymentResponse{Date: h.Date, Amount: h.Amount, RemainingAfter: h.RemainingAfter}
	}
	resp := loanResponse{
		ContractID:  l.ContractID,
		ContractNo:  loan.FormatID(l.ContractID),
		Name:        l.Name,
		Phone:       l.Phone,
		IMEI:        l.IMEI,
		LoanAmount:  l.LoanAmount,
		GivenAmount: l.GivenAmount,
		PaidTotal:   l.PaidTotal,
		RepayAmount: l.RepayAmount,
		LoanDays:    l.LoanDays,
		PayInterval: l.PayInterval,
		StartDate:   l.StartDate,
		Status:      l.Status,
		History:     history,
	}
	if st := loan.Schedule(l.StartDate, l.PayInterval, l.LoanDays, l.GivenAmount, l.PaidTotal, today); st != nil {
		resp.PerCycleAmount = &st.PerCycleAmount
		resp.OverdueCycles = &st.OverdueCycles
		resp.DaysUntilDue = st.DaysUntilDue
		if st.NextUnpaidDueDate != nil {
			s := st.NextUnpaidDueDate.Format(loan.DateLayout)
			resp.NextDueDate = &s
		}
	}
	return resp
}
