package investment

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

type InvestmentDTO struct {
	ID             int     `json:"id"`
	Type           string  `json:"type"`
	AmountInvested string  `json:"amountInvested"`
	CurrentValue   string  `json:"currentValue"`
	DateInvested   string  `json:"dateInvested"`
	ExpectedReturn float64 `json:"expectedReturn,omitempty"`
	ProfitLoss     string  `json:"profitLoss"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Creating investment")

	investment, ok := decodeInvestment(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), investment)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		log.Errorf("failed to encode investment: %v", err)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	investments, err := h.service.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]InvestmentDTO, 0, len(investments))
	for _, investment := range investments {
		dtos = append(dtos, toDTO(investment))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("failed to encode investments: %v", err)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, ok := investmentIdFromPath(w, r)
	if !ok {
		return
	}
	investment, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(investment)); err != nil {
		log.Errorf("failed to encode investment: %v", err)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, ok := investmentIdFromPath(w, r)
	if !ok {
		return
	}
	investment, ok := decodeInvestment(w, r)
	if !ok {
		return
	}
	investment.ID = id

	updated, err := h.service.Update(r.Context(), investment)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		log.Errorf("failed to encode investment: %v", err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := investmentIdFromPath(w, r)
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
	if errors.Is(err, ErrInvestmentNotFound) {
		rest.WriteError(w, http.StatusNotFound, "investment not found")
		return
	}
	rest.WriteError(w, http.StatusInternalServerError, err.Error())
}

func investmentIdFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["investmentId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid investment id")
		return 0, false
	}
	return id, true
}

func decodeInvestment(w http.ResponseWriter, r *http.Request) (Investment, bool) {
	var dto InvestmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return Investment{}, false
	}
	invested, err := money.ParsePositive(dto.AmountInvested)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid amount invested")
		return Investment{}, false
	}
	current, err := money.Parse(dto.CurrentValue)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid current value")
		return Investment{}, false
	}
	date, err := time.Parse("2006-01-02", dto.DateInvested)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid date invested")
		return Investment{}, false
	}
	return Investment{
		Type:           dto.Type,
		AmountInvested: invested,
		CurrentValue:   current,
		DateInvested:   date,
		ExpectedReturn: int(dto.ExpectedReturn * 100),
	}, true
}

func toDTO(investment Investment) InvestmentDTO {
	return InvestmentDTO{
		ID:             investment.ID,
		Type:           investment.Type,
		AmountInvested: investment.AmountInvested.String(),
		CurrentValue:   investment.CurrentValue.String(),
		DateInvested:   investment.DateInvested.Format("2006-01-02"),
		ExpectedReturn: float64(investment.ExpectedReturn) / 100,
		ProfitLoss:     investment.ProfitLoss().String(),
	}
}
