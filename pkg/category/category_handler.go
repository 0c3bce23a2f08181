package category

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/rest"
)

type CategoryDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Creating category")

	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if dto.Name == "" {
		rest.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.service.Create(r.Context(), Category{Name: dto.Name, Description: dto.Description})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		log.Errorf("failed to encode category: %v", err)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	categories, err := h.service.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, toDTO(c))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("failed to encode categories: %v", err)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	c, err := h.service.Get(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(c)); err != nil {
		log.Errorf("failed to encode category: %v", err)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	existing, err := h.service.Get(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), Category{
		ID:          existing.ID,
		Name:        dto.Name,
		Description: dto.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		log.Errorf("failed to encode category: %v", err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["slug"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		rest.WriteError(w, http.StatusNotFound, "category not found")
	case errors.Is(err, ErrCategoryNameTaken):
		rest.WriteError(w, http.StatusConflict, "category name already in use")
	default:
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func toDTO(c Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
}
