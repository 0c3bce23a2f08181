package sheets

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/rest"
)

type exportRequestDTO struct {
	SpreadsheetId string `json:"spreadsheetId"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
}

type exportResultDTO struct {
	SpreadsheetId string `json:"spreadsheetId"`
	SheetTitle    string `json:"sheetTitle"`
	RowsWritten   int    `json:"rowsWritten"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ExportMonth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto exportRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if dto.SpreadsheetId == "" {
		rest.WriteError(w, http.StatusBadRequest, "spreadsheetId is required")
		return
	}
	if dto.Month < 1 || dto.Month > 12 || dto.Year < 1 {
		rest.WriteError(w, http.StatusBadRequest, "invalid year or month")
		return
	}

	result, err := h.service.ExportMonth(r.Context(), dto.SpreadsheetId, dto.Year, dto.Month)
	if errors.Is(err, ErrUnauthenticated) {
		rest.WriteError(w, http.StatusUnauthorized, "google authentication required")
		return
	}
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := json.NewEncoder(w).Encode(exportResultDTO{
		SpreadsheetId: result.SpreadsheetId,
		SheetTitle:    result.SheetTitle,
		RowsWritten:   result.RowsWritten,
	}); err != nil {
		log.Errorf("failed to encode export result: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	return json.NewEncoder(w).Encode(v)
}
