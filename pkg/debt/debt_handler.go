package debt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/money"
	"github.com/equilibrium-app/equilibrium/internal/rest"
	"github.com/equilibrium-app/equilibrium/internal/utils"
)

type DebtDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	DueDate     string `json:"dueDate"`
	Paid        bool   `json:"paid"`
	Overdue     bool   `json:"overdue"`
	CategoryId  int    `json:"categoryId,omitempty"`
}

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Creating debt")

	debt, ok := decodeDebt(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), debt)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(h.toDTO(created)); err != nil {
		log.Errorf("failed to encode debt: %v", err)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	onlyUnpaid := r.URL.Query().Get("unpaid") == "true"
	debts, err := h.service.GetAll(r.Context(), onlyUnpaid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]DebtDTO, 0, len(debts))
	for _, debt := range debts {
		dtos = append(dtos, h.toDTO(debt))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("failed to encode debts: %v", err)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, ok := debtIdFromPath(w, r)
	if !ok {
		return
	}
	debt, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(h.toDTO(debt)); err != nil {
		log.Errorf("failed to encode debt: %v", err)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, ok := debtIdFromPath(w, r)
	if !ok {
		return
	}
	debt, ok := decodeDebt(w, r)
	if !ok {
		return
	}
	debt.ID = id

	updated, err := h.service.Update(r.Context(), debt)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(h.toDTO(updated)); err != nil {
		log.Errorf("failed to encode debt: %v", err)
	}
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	h.togglePaid(w, r, h.service.MarkPaid)
}

func (h *Handler) Unpay(w http.ResponseWriter, r *http.Request) {
	h.togglePaid(w, r, h.service.MarkUnpaid)
}

func (h *Handler) togglePaid(w http.ResponseWriter, r *http.Request, toggle func(ctx context.Context, debtId int) (Debt, error)) {
	w.Header().Set("Content-Type", "application/json")

	id, ok := debtIdFromPath(w, r)
	if !ok {
		return
	}
	debt, err := toggle(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(h.toDTO(debt)); err != nil {
		log.Errorf("failed to encode debt: %v", err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := debtIdFromPath(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrDebtNotFound) {
		rest.WriteError(w, http.StatusNotFound, "debt not found")
		return
	}
	rest.WriteError(w, http.StatusInternalServerError, err.Error())
}

func debtIdFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["debtId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid debt id")
		return 0, false
	}
	return id, true
}

func decodeDebt(w http.ResponseWriter, r *http.Request) (Debt, bool) {
	var dto DebtDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return Debt{}, false
	}
	amount, err := money.ParsePositive(dto.Amount)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid amount")
		return Debt{}, false
	}
	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid date")
		return Debt{}, false
	}
	dueDate, err := time.Parse("2006-01-02", dto.DueDate)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid due date")
		return Debt{}, false
	}
	return Debt{
		Name:        dto.Name,
		Amount:      amount,
		Description: dto.Description,
		Date:        date,
		DueDate:     dueDate,
		Paid:        dto.Paid,
		CategoryId:  dto.CategoryId,
	}, true
}

func (h *Handler) toDTO(debt Debt) DebtDTO {
	return DebtDTO{
		ID:          debt.ID,
		Name:        debt.Name,
		Amount:      debt.Amount.String(),
		Description: debt.Description,
		Date:        debt.Date.Format("2006-01-02"),
		DueDate:     debt.DueDate.Format("2006-01-02"),
		Paid:        debt.Paid,
		Overdue:     debt.IsOverdue(h.clock.Now()),
		CategoryId:  debt.CategoryId,
	}
}
