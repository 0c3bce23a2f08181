package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/money"
	"github.com/equilibrium-app/equilibrium/internal/rest"
)

type ExpenseDTO struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	CategoryId  int    `json:"categoryId,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Creating expense")

	expense, ok := decodeExpense(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), expense)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		log.Errorf("failed to encode expense: %v", err)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var expenses []Expense
	var err error
	if r.URL.Query().Has("year") {
		year, yErr := strconv.Atoi(r.URL.Query().Get("year"))
		month, mErr := strconv.Atoi(r.URL.Query().Get("month"))
		if yErr != nil || mErr != nil {
			rest.WriteError(w, http.StatusBadRequest, "invalid year or month")
			return
		}
		expenses, err = h.service.GetForMonth(r.Context(), year, month)
	} else {
		expenses, err = h.service.GetAll(r.Context())
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]ExpenseDTO, 0, len(expenses))
	for _, expense := range expenses {
		dtos = append(dtos, toDTO(expense))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("failed to encode expenses: %v", err)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(mux.Vars(r)["expenseId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	expense, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(expense)); err != nil {
		log.Errorf("failed to encode expense: %v", err)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(mux.Vars(r)["expenseId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	expense, ok := decodeExpense(w, r)
	if !ok {
		return
	}
	expense.ID = id

	updated, err := h.service.Update(r.Context(), expense)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		log.Errorf("failed to encode expense: %v", err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["expenseId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrExpenseNotFound) {
		rest.WriteError(w, http.StatusNotFound, "expense not found")
		return
	}
	rest.WriteError(w, http.StatusInternalServerError, err.Error())
}

func decodeExpense(w http.ResponseWriter, r *http.Request) (Expense, bool) {
	var dto ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return Expense{}, false
	}
	amount, err := money.ParsePositive(dto.Amount)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid amount")
		return Expense{}, false
	}
	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid date")
		return Expense{}, false
	}
	return Expense{
		Title:       dto.Title,
		Amount:      amount,
		Description: dto.Description,
		Date:        date,
		CategoryId:  dto.CategoryId,
	}, true
}

func toDTO(expense Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          expense.ID,
		Title:       expense.Title,
		Amount:      expense.Amount.String(),
		Description: expense.Description,
		Date:        expense.Date.Format("2006-01-02"),
		CategoryId:  expense.CategoryId,
	}
}
