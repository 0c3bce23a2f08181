package bill

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

type BillDTO struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Amount        string     `json:"amount"`
	DueDay        int        `json:"dueDay"`
	Frequency     Frequency  `json:"frequency,omitempty"`
	CategoryId    int        `json:"categoryId,omitempty"`
	IsActive      bool       `json:"isActive"`
	DeactivatedAt *time.Time `json:"deactivatedAt,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

type PaymentDTO struct {
	ID         int           `json:"id"`
	BillId     int           `json:"billId"`
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	Status     PaymentStatus `json:"status"`
	PaidDate   *time.Time    `json:"paidDate,omitempty"`
	AmountPaid string        `json:"amountPaid,omitempty"`
	Notes      string        `json:"notes,omitempty"`
}

type PaymentDetailsDTO struct {
	Bill    BillDTO       `json:"bill"`
	Payment *PaymentDTO   `json:"payment,omitempty"`
	Status  PaymentStatus `json:"status"`
	DueDate string        `json:"dueDate"`
	Overdue bool          `json:"overdue"`
}

type payRequestDTO struct {
	Amount string `json:"amount,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Creating recurring bill")

	var dto BillDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := dtoToBill(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), b)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(billToDTO(created)); err != nil {
		log.Errorf("failed to encode bill: %v", err)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// With year and month the listing becomes a per-period view restricted to
	// bills that were active during that period.
	if r.URL.Query().Has("year") || r.URL.Query().Has("month") {
		h.getAllForPeriod(w, r)
		return
	}

	includeInactive := r.URL.Query().Has("includeInactive")
	bills, err := h.service.GetAll(r.Context(), includeInactive)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]BillDTO, 0, len(bills))
	for _, b := range bills {
		dtos = append(dtos, billToDTO(b))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("failed to encode bills: %v", err)
	}
}

func (h *Handler) getAllForPeriod(w http.ResponseWriter, r *http.Request) {
	year, month, ok := periodFromQuery(w, r)
	if !ok {
		return
	}

	details, err := h.service.GetAllForPeriod(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]PaymentDetailsDTO, 0, len(details))
	for _, d := range details {
		dtos = append(dtos, detailsToDTO(d))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("failed to encode bills for period: %v", err)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	billId, ok := billIdFromPath(w, r)
	if !ok {
		return
	}

	b, err := h.service.Get(r.Context(), billId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(billToDTO(b)); err != nil {
		log.Errorf("failed to encode bill: %v", err)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	billId, ok := billIdFromPath(w, r)
	if !ok {
		return
	}

	var dto BillDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if dto.ID == 0 {
		dto.ID = billId
	}
	if dto.ID != billId {
		rest.WriteError(w, http.StatusBadRequest, "bill id mismatch")
		return
	}
	b, err := dtoToBill(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), b)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(billToDTO(updated)); err != nil {
		log.Errorf("failed to encode bill: %v", err)
	}
}

// Deactivate handles DELETE on a bill. Bills are tombstoned, never removed.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	billId, ok := billIdFromPath(w, r)
	if !ok {
		return
	}

	deactivated, err := h.service.Deactivate(r.Context(), billId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(billToDTO(deactivated)); err != nil {
		log.Errorf("failed to encode bill: %v", err)
	}
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	billId, year, month, ok := paymentPathParams(w, r)
	if !ok {
		return
	}

	details, err := h.service.PaymentForPeriod(r.Context(), billId, year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(detailsToDTO(details)); err != nil {
		log.Errorf("failed to encode payment details: %v", err)
	}
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	billId, year, month, ok := paymentPathParams(w, r)
	if !ok {
		return
	}

	var req payRequestDTO
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			rest.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	var amount money.Money
	if req.Amount != "" {
		var err error
		amount, err = money.ParsePositive(req.Amount)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "invalid amount")
			return
		}
	}

	payment, err := h.service.MarkPaid(r.Context(), billId, year, month, amount, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(paymentToDTO(payment)); err != nil {
		log.Errorf("failed to encode payment: %v", err)
	}
}

func (h *Handler) Unpay(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	billId, year, month, ok := paymentPathParams(w, r)
	if !ok {
		return
	}

	payment, err := h.service.MarkPending(r.Context(), billId, year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if payment == nil {
		// No record existed; the period was already pending.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := json.NewEncoder(w).Encode(paymentToDTO(*payment)); err != nil {
		log.Errorf("failed to encode payment: %v", err)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBillNotFound):
		rest.WriteError(w, http.StatusNotFound, "bill not found")
	case errors.Is(err, ErrInvalidPeriod), errors.Is(err, ErrInvalidDueDay):
		rest.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnsupportedFrequency):
		rest.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func billIdFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	billId, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid bill id")
		return 0, false
	}
	return billId, true
}

func paymentPathParams(w http.ResponseWriter, r *http.Request) (billId, year, month int, ok bool) {
	billId, ok = billIdFromPath(w, r)
	if !ok {
		return 0, 0, 0, false
	}
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid year")
		return 0, 0, 0, false
	}
	month, err = strconv.Atoi(vars["month"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid month")
		return 0, 0, 0, false
	}
	return billId, year, month, true
}

func periodFromQuery(w http.ResponseWriter, r *http.Request) (year, month int, ok bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid year")
		return 0, 0, false
	}
	month, err = strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid month")
		return 0, 0, false
	}
	return year, month, true
}

func billToDTO(b RecurringBill) BillDTO {
	dto := BillDTO{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Amount:      b.Amount.String(),
		DueDay:      b.DueDay,
		Frequency:   b.Frequency,
		CategoryId:  b.CategoryId,
		IsActive:    b.IsActive,
	}
	if !b.DeactivatedAt.IsZero() {
		dto.DeactivatedAt = &b.DeactivatedAt
	}
	if !b.CreatedAt.IsZero() {
		dto.CreatedAt = &b.CreatedAt
	}
	return dto
}

func dtoToBill(dto BillDTO) (RecurringBill, error) {
	amount, err := money.ParsePositive(dto.Amount)
	if err != nil {
		return RecurringBill{}, err
	}
	return RecurringBill{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		Amount:      amount,
		DueDay:      dto.DueDay,
		Frequency:   dto.Frequency,
		CategoryId:  dto.CategoryId,
	}, nil
}

func paymentToDTO(p BillPayment) PaymentDTO {
	dto := PaymentDTO{
		ID:     p.ID,
		BillId: p.BillId,
		Year:   p.Year,
		Month:  p.Month,
		Status: p.Status,
		Notes:  p.Notes,
	}
	if !p.PaidDate.IsZero() {
		dto.PaidDate = &p.PaidDate
	}
	if p.AmountPaid != 0 {
		dto.AmountPaid = p.AmountPaid.String()
	}
	return dto
}

func detailsToDTO(d PaymentDetails) PaymentDetailsDTO {
	dto := PaymentDetailsDTO{
		Bill:    billToDTO(d.Bill),
		Status:  d.Status,
		DueDate: d.DueDate.Format("2006-01-02"),
		Overdue: d.Overdue,
	}
	if d.Payment != nil {
		payment := paymentToDTO(*d.Payment)
		dto.Payment = &payment
	}
	return dto
}
