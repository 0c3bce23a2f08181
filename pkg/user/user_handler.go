package user

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/rest"
)

type UserDTO struct {
	Uid         string      `json:"uid"`
	Username    string      `json:"username"`
	DisplayName string      `json:"displayName"`
	Settings    SettingsDTO `json:"settings"`
}

type SettingsDTO struct {
	Timezone string `json:"timezone"`
	Currency string `json:"currency"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{userService: userService}
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Creating user")

	var dto UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if dto.Username == "" {
		rest.WriteError(w, http.StatusBadRequest, "username is required")
		return
	}

	created, err := h.userService.CreateUser(r.Context(), dtoToUser(dto))
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(userToDTO(created)); err != nil {
		log.Errorf("failed to encode user: %v", err)
	}
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	current, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoUser) || errors.Is(err, ErrUserNotFound) {
			rest.WriteError(w, http.StatusForbidden, "user not found")
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := json.NewEncoder(w).Encode(userToDTO(current)); err != nil {
		log.Errorf("failed to encode user: %v", err)
	}
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.userService.UpdateUser(r.Context(), dtoToUser(dto))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			rest.WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := json.NewEncoder(w).Encode(userToDTO(updated)); err != nil {
		log.Errorf("failed to encode user: %v", err)
	}
}

func (h *Handler) IsUsernameAvailable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	username := r.URL.Query().Get("username")
	if username == "" {
		rest.WriteError(w, http.StatusBadRequest, "username is required")
		return
	}

	available, err := h.userService.IsUsernameAvailable(r.Context(), username)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := struct {
		Available bool `json:"available"`
	}{Available: available}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

func userToDTO(user User) UserDTO {
	return UserDTO{
		Uid:         user.Uid,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Settings: SettingsDTO{
			Timezone: user.Settings.Timezone,
			Currency: user.Settings.Currency,
		},
	}
}

func dtoToUser(dto UserDTO) User {
	return User{
		Uid:         dto.Uid,
		Username:    dto.Username,
		DisplayName: dto.DisplayName,
		Settings: Settings{
			Timezone: dto.Settings.Timezone,
			Currency: dto.Settings.Currency,
		},
	}
}
