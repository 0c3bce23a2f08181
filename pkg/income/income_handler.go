package income

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

type IncomeDTO struct {
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
	log.Debug("Creating income")

	income, ok := decodeIncome(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), income)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		log.Errorf("failed to encode income: %v", err)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var incomes []Income
	var err error
	if r.URL.Query().Has("year") {
		year, yErr := strconv.Atoi(r.URL.Query().Get("year"))
		month, mErr := strconv.Atoi(r.URL.Query().Get("month"))
		if yErr != nil || mErr != nil {
			rest.WriteError(w, http.StatusBadRequest, "invalid year or month")
			return
		}
		incomes, err = h.service.GetForMonth(r.Context(), year, month)
	} else {
		incomes, err = h.service.GetAll(r.Context())
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]IncomeDTO, 0, len(incomes))
	for _, income := range incomes {
		dtos = append(dtos, toDTO(income))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("failed to encode incomes: %v", err)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(mux.Vars(r)["incomeId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid income id")
		return
	}
	income, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(income)); err != nil {
		log.Errorf("failed to encode income: %v", err)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(mux.Vars(r)["incomeId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid income id")
		return
	}
	income, ok := decodeIncome(w, r)
	if !ok {
		return
	}
	income.ID = id

	updated, err := h.service.Update(r.Context(), income)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		log.Errorf("failed to encode income: %v", err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["incomeId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid income id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrIncomeNotFound) {
		rest.WriteError(w, http.StatusNotFound, "income not found")
		return
	}
	rest.WriteError(w, http.StatusInternalServerError, err.Error())
}

func decodeIncome(w http.ResponseWriter, r *http.Request) (Income, bool) {
	var dto IncomeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return Income{}, false
	}
	amount, err := money.ParsePositive(dto.Amount)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid amount")
		return Income{}, false
	}
	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid date")
		return Income{}, false
	}
	return Income{
		Title:       dto.Title,
		Amount:      amount,
		Description: dto.Description,
		Date:        date,
		CategoryId:  dto.CategoryId,
	}, true
}

func toDTO(income Income) IncomeDTO {
	return IncomeDTO{
		ID:          income.ID,
		Title:       income.Title,
		Amount:      income.Amount.String(),
		Description: income.Description,
		Date:        income.Date.Format("2006-01-02"),
		CategoryId:  income.CategoryId,
	}
}
