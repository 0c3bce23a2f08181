package goal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/money"
	"github.com/equilibrium-app/equilibrium/internal/rest"
	"github.com/equilibrium-app/equilibrium/internal/utils"
)

type GoalDTO struct {
	ID                 int        `json:"id"`
	Title              string     `json:"title"`
	Slug               string     `json:"slug"`
	Description        string     `json:"description,omitempty"`
	Target             string     `json:"target"`
	Current            string     `json:"current"`
	Deadline           string     `json:"deadline,omitempty"`
	Achieved           bool       `json:"achieved"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	ProgressPercentage float64    `json:"progressPercentage"`
	RemainingAmount    string     `json:"remainingAmount"`
	DaysRemaining      *int       `json:"daysRemaining,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
}

type EntryDTO struct {
	ID        int       `json:"id"`
	GoalId    int       `json:"goalId"`
	Amount    string    `json:"amount"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type movementDTO struct {
	Amount string `json:"amount"`
	Note   string `json:"note,omitempty"`
}

type movementResponseDTO struct {
	Entry EntryDTO `json:"entry"`
	Goal  GoalDTO  `json:"goal"`
}

type goalRequestDTO struct {
	ID          int    `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Target      string `json:"target"`
	Deadline    string `json:"deadline,omitempty"`
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
	log.Debug("Creating goal")

	g, ok := h.decodeGoal(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), g)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(h.goalToDTO(created)); err != nil {
		log.Errorf("failed to encode goal: %v", err)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	goals, err := h.service.GetAll(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	dtos := make([]GoalDTO, 0, len(goals))
	for _, g := range goals {
		dtos = append(dtos, h.goalToDTO(g))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("failed to encode goals: %v", err)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	g, err := h.service.Get(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(h.goalToDTO(g)); err != nil {
		log.Errorf("failed to encode goal: %v", err)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	existing, err := h.service.Get(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	g, ok := h.decodeGoal(w, r)
	if !ok {
		return
	}
	g.ID = existing.ID

	updated, err := h.service.Update(r.Context(), g)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(h.goalToDTO(updated)); err != nil {
		log.Errorf("failed to encode goal: %v", err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["slug"]); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.applyMovement(w, r, h.service.Deposit)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.applyMovement(w, r, h.service.Withdraw)
}

func (h *Handler) applyMovement(w http.ResponseWriter, r *http.Request,
	apply func(ctx context.Context, slug string, amount money.Money, note string) (GoalEntry, Goal, error)) {
	w.Header().Set("Content-Type", "application/json")

	var dto movementDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := money.ParsePositive(dto.Amount)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	entry, g, err := apply(r.Context(), mux.Vars(r)["slug"], amount, dto.Note)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	response := movementResponseDTO{Entry: entryToDTO(entry), Goal: h.goalToDTO(g)}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Errorf("failed to encode movement: %v", err)
	}
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	entries, err := h.service.ListEntries(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, entryToDTO(entry))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("failed to encode entries: %v", err)
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGoalNotFound):
		rest.WriteError(w, http.StatusNotFound, "goal not found")
	case errors.Is(err, ErrExceedsRemainingCapacity),
		errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrInvalidTarget),
		errors.Is(err, money.ErrInvalidAmount):
		rest.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrConcurrencyConflict):
		rest.WriteError(w, http.StatusConflict, "goal was updated concurrently, retry the operation")
	default:
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) decodeGoal(w http.ResponseWriter, r *http.Request) (Goal, bool) {
	var dto goalRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return Goal{}, false
	}
	target, err := money.ParsePositive(dto.Target)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid target")
		return Goal{}, false
	}
	g := Goal{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Target:      target,
	}
	if dto.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", dto.Deadline)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "invalid deadline")
			return Goal{}, false
		}
		g.Deadline = deadline
	}
	return g, true
}

func (h *Handler) goalToDTO(g Goal) GoalDTO {
	dto := GoalDTO{
		ID:                 g.ID,
		Title:              g.Title,
		Slug:               g.Slug,
		Description:        g.Description,
		Target:             g.Target.String(),
		Current:            g.Current.String(),
		Achieved:           g.Achieved,
		ProgressPercentage: g.ProgressPercentage(),
		RemainingAmount:    g.Remaining().String(),
	}
	if !g.Deadline.IsZero() {
		dto.Deadline = g.Deadline.Format("2006-01-02")
	}
	if !g.CompletedAt.IsZero() {
		dto.CompletedAt = &g.CompletedAt
	}
	if days, ok := g.DaysRemaining(h.clock.Now()); ok {
		dto.DaysRemaining = &days
	}
	if !g.CreatedAt.IsZero() {
		dto.CreatedAt = &g.CreatedAt
	}
	return dto
}

func entryToDTO(entry GoalEntry) EntryDTO {
	return EntryDTO{
		ID:        entry.ID,
		GoalId:    entry.GoalId,
		Amount:    entry.Amount.String(),
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt,
	}
}
