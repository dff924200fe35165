package http

import (
	"net/http"
	"strconv"

	"riepilogo/internal/log"
)

// handleListExpenses serves GET /expenses with the filtered total.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.OpList)
		return
	}

	list, err := s.expenses.SearchExpenses(r.Context(), f)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.OpList)
		return
	}

	out := expenseListJSON{
		Items:      make([]expenseJSON, 0, len(list.Items)),
		Count:      len(list.Items),
		TotalCents: list.Total.Cents,
		Total:      list.Total.String(),
	}
	for _, e := range list.Items {
		out.Items = append(out.Items, toExpenseJSON(e))
	}
	NewResponse().JSON(out).Write(w)
}

// handleCreateExpense accepts a form or JSON body. The date defaults to
// today.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	e, err := ParseExpense(NewRequestBodyParser(r), s.today())
	if err != nil {
		writeError(w, r, err, http.StatusUnprocessableEntity, log.OpCreate)
		return
	}

	saved, err := s.expenses.CreateExpense(r.Context(), e)
	if err != nil {
		writeError(w, r, err, http.StatusUnprocessableEntity, log.OpCreate)
		return
	}

	NewResponse().
		Status(http.StatusCreated).
		Header("Location", "/expenses/"+strconv.FormatInt(saved.ID, 10)).
		JSON(toExpenseJSON(saved)).
		Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.OpRead)
		return
	}
	e, err := s.expenses.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.OpRead)
		return
	}
	NewResponse().JSON(toExpenseJSON(e)).Write(w)
}

// handleUpdateExpense replaces an expense. Omitting the date keeps the
// stored one.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.OpUpdate)
		return
	}
	current, err := s.expenses.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.OpUpdate)
		return
	}

	e, err := ParseExpense(NewRequestBodyParser(r), current.Date)
	if err != nil {
		writeError(w, r, err, http.StatusUnprocessableEntity, log.OpUpdate)
		return
	}
	e.ID = id

	saved, err := s.expenses.UpdateExpense(r.Context(), e)
	if err != nil {
		writeError(w, r, err, http.StatusUnprocessableEntity, log.OpUpdate)
		return
	}
	NewResponse().JSON(toExpenseJSON(saved)).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.OpDelete)
		return
	}
	if err := s.expenses.DeleteExpense(r.Context(), id); err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.OpDelete)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}
