package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"

	"github.com/vqtran/loanbook/internal/errs"
	"github.com/vqtran/loanbook/internal/loan"
)

// listLoans handles GET /v1/loans.
func (s *Server) listLoans(w http.ResponseWriter, r *http.Request) {
	loans, total, err := s.book.List(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		s.writeOpError(w, err, "load failed")
		return
	}
	today := s.now()
	items := make([]loanResponse, len(loans))
	for i, l := range loans {
		items[i] = toLoanResponse(l, today)
	}
	toJSON(w, http.StatusOK, listLoansResponse{Items: items, TotalLoanAmount: total})
}

// postLoan handles POST /v1/loans.
func (s *Server) postLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	created, err := s.book.Create(r.Context(), ownerFrom(r.Context()), req.terms())
	if err != nil {
		s.writeOpError(w, err, "save failed")
		return
	}
	toJSON(w, http.StatusCreated, toLoanResponse(created, s.now()))
}

// patchLoan handles PATCH /v1/loans/{id}.
func (s *Server) patchLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := contractID(w, r)
	if !ok {
		return
	}
	var req loanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	updated, err := s.book.Edit(r.Context(), ownerFrom(r.Context()), id, req.terms())
	if err != nil {
		s.writeOpError(w, err, "save failed")
		return
	}
	toJSON(w, http.StatusOK, toLoanResponse(updated, s.now()))
}

// postPayment handles POST /v1/loans/{id}/payments.
func (s *Server) postPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := contractID(w, r)
	if !ok {
		return
	}
	var req paymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Date == "" {
		req.Date = s.now().Format(loan.DateLayout)
	}
	updated, err := s.book.ApplyPayment(r.Context(), ownerFrom(r.Context()), id, req.Amount, req.Date)
	if err != nil {
		s.writeOpError(w, err, "payment failed")
		return
	}
	toJSON(w, http.StatusOK, toLoanResponse(updated, s.now()))
}

// closeLoan handles POST /v1/loans/{id}/close.
func (s *Server) closeLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := contractID(w, r)
	if !ok {
		return
	}
	updated, err := s.book.Close(r.Context(), ownerFrom(r.Context()), id)
	if err != nil {
		s.writeOpError(w, err, "save failed")
		return
	}
	toJSON(w, http.StatusOK, toLoanResponse(updated, s.now()))
}

// deleteLoans handles DELETE /v1/loans: wipes the owner's contracts.
func (s *Server) deleteLoans(w http.ResponseWriter, r *http.Request) {
	if err := s.book.DeleteAll(r.Context(), ownerFrom(r.Context())); err != nil {
		s.writeOpError(w, err, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listWarnings handles GET /v1/warnings.
func (s *Server) listWarnings(w http.ResponseWriter, r *http.Request) {
	warnings, err := s.book.Warnings(r.Context(), ownerFrom(r.Context()), s.now())
	if err != nil {
		s.writeOpError(w, err, "load failed")
		return
	}
	out := make([]warningResponse, len(warnings))
	for i, wn := range warnings {
		out[i] = warningResponse{
			ContractID:    wn.ContractID,
			ContractNo:    loan.FormatID(wn.ContractID),
			Kind:          wn.Kind,
			OverdueCycles: wn.OverdueCycles,
			DaysUntilDue:  wn.DaysUntilDue,
		}
	}
	toJSON(w, http.StatusOK, out)
}

func contractID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, "invalid contract id")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// writeOpError maps service errors onto the API's failure cases. The
// message prefix distinguishes which operation failed.
func (s *Server) writeOpError(w http.ResponseWriter, err error, prefix string) {
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		unauthorized(w)
	case errors.Is(err, errs.ErrNotFound):
		notFound(w)
	case errors.Is(err, errs.ErrInvalid):
		badRequest(w, err.Error())
	default:
		writeErr(w, http.StatusBadGateway, prefix+": "+err.Error(), "store_error")
	}
}
