package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fdilabs/LevelGate_Go/internal/access"
	"github.com/fdilabs/LevelGate_Go/internal/domain"
	"github.com/fdilabs/LevelGate_Go/internal/logger"
	"github.com/fdilabs/LevelGate_Go/internal/user"
)

// RegisterUserRequest represents the request to register a user
type RegisterUserRequest struct {
	TelegramID int64  `json:"telegram_id" validate:"required"`
	FirstName  string `json:"first_name" validate:"max=128"`
	LastName   string `json:"last_name" validate:"max=128"`
	Phone      string `json:"phone" validate:"max=32"`
	Email      string `json:"email" validate:"omitempty,email"`
	Level      int    `json:"level" validate:"access_level"`
}

// RegisterUserResponse reports the upserted user and whether the call
// created a new record.
type RegisterUserResponse struct {
	User    *domain.User `json:"user"`
	Created bool         `json:"created"`
}

// ApproveUserRequest resolves a pending user
type ApproveUserRequest struct {
	Approve    bool   `json:"approve"`
	ReviewerID *int64 `json:"reviewer_id,omitempty"`
}

// ApproveUserResponse carries the resolved user plus any isolated
// synchronization failures.
type ApproveUserResponse struct {
	User         *domain.User         `json:"user"`
	SyncFailures []access.SyncFailure `json:"sync_failures,omitempty"`
}

// ChangeLevelRequest moves a user to a new access level
type ChangeLevelRequest struct {
	Level int `json:"level" validate:"required,access_level"`
}

// ChangeLevelResponse reports the persisted level and any isolated failures
type ChangeLevelResponse struct {
	UserID       int64                `json:"user_id"`
	Level        domain.Level         `json:"level"`
	SyncFailures []access.SyncFailure `json:"sync_failures,omitempty"`
}

// DeleteUserResponse reports a deletion and any isolated eviction failures
type DeleteUserResponse struct {
	Message      string               `json:"message"`
	SyncFailures []access.SyncFailure `json:"sync_failures,omitempty"`
}

// ListUsersResponse wraps a user listing
type ListUsersResponse struct {
	Users []domain.User `json:"users"`
}

// HandleRegisterUser registers a user or refreshes an existing registration
// @Summary Register a user
// @Description Upserts a user by telegram id. Level 1 activates immediately, higher levels wait for approval.
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterUserRequest true "Registration request"
// @Success 200 {object} RegisterUserResponse
// @Success 201 {object} RegisterUserResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/users/register [post]
func HandleRegisterUser(userService user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RegisterUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode register user request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		// An omitted level means level 1.
		if req.Level == 0 {
			req.Level = int(domain.MinLevel)
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Register user validation failed", "telegram_id", req.TelegramID)
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		registered, created, err := userService.Register(r.Context(), user.RegisterInput{
			TelegramID: req.TelegramID,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Phone:      req.Phone,
			Email:      req.Email,
			Level:      domain.Level(req.Level),
		})
		if err != nil {
			log.Error("Failed to register user", "error", err, "telegram_id", req.TelegramID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		respondJSON(w, status, RegisterUserResponse{User: registered, Created: created})
	}
}

// HandleApproveUser resolves a pending registration
// @Summary Approve or reject a user
// @Description Resolves a pending user to active (granting channel access) or rejected.
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body ApproveUserRequest true "Approval decision"
// @Success 200 {object} ApproveUserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/{id}/approve [post]
func HandleApproveUser(userService user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID, ok := parseIDParam(w, r, "id", ErrMsgInvalidUserID)
		if !ok {
			return
		}

		var req ApproveUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode approve user request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		approved, failures, err := userService.Approve(r.Context(), userID, req.Approve, req.ReviewerID)
		if err != nil {
			log.Error("Failed to resolve approval", "error", err, "user_id", userID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, ApproveUserResponse{User: approved, SyncFailures: failures})
	}
}

// HandleChangeLevel moves a user to a new level and synchronizes channels
// @Summary Change a user's access level
// @Description Persists the new level, evicts the user from channels above it and issues invites up to it.
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body ChangeLevelRequest true "Target level"
// @Success 200 {object} ChangeLevelResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/{id}/change-level [post]
func HandleChangeLevel(userService user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID, ok := parseIDParam(w, r, "id", ErrMsgInvalidUserID)
		if !ok {
			return
		}

		var req ChangeLevelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode change level request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Change level validation failed", "user_id", userID, "level", req.Level)
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		newLevel, failures, err := userService.ChangeLevel(r.Context(), userID, domain.Level(req.Level))
		if err != nil {
			log.Error("Failed to change level", "error", err, "user_id", userID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, ChangeLevelResponse{
			UserID:       userID,
			Level:        newLevel,
			SyncFailures: failures,
		})
	}
}

// HandleDeleteUser removes a user and evicts them from all channels
// @Summary Delete a user
// @Description Evicts the user from every level channel, then removes the record.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} DeleteUserResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/{id} [delete]
func HandleDeleteUser(userService user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID, ok := parseIDParam(w, r, "id", ErrMsgInvalidUserID)
		if !ok {
			return
		}

		failures, err := userService.Delete(r.Context(), userID)
		if err != nil {
			log.Error("Failed to delete user", "error", err, "user_id", userID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, DeleteUserResponse{Message: "user deleted", SyncFailures: failures})
	}
}

// HandleGetUser fetches a user by internal id
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} domain.User
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/{id} [get]
func HandleGetUser(userService user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := parseIDParam(w, r, "id", ErrMsgInvalidUserID)
		if !ok {
			return
		}

		u, err := userService.GetByID(r.Context(), userID)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, u)
	}
}

// HandleGetUserByTelegramID fetches a user by telegram id
// @Summary Get a user by telegram id
// @Tags users
// @Produce json
// @Param telegram_id path int true "Telegram ID"
// @Success 200 {object} domain.User
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/by-telegram/{telegram_id} [get]
func HandleGetUserByTelegramID(userService user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		telegramID, ok := parseIDParam(w, r, "telegram_id", ErrMsgInvalidUserID)
		if !ok {
			return
		}

		u, err := userService.GetByTelegramID(r.Context(), telegramID)
		if err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, u)
	}
}

// HandleListUsers lists users, optionally filtered by level and status
// @Summary List users
// @Tags users
// @Produce json
// @Param level query int false "Filter by level"
// @Param status query string false "Filter by status"
// @Success 200 {object} ListUsersResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/users [get]
func HandleListUsers(userService user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var filter domain.UserFilter
		if raw := r.URL.Query().Get("level"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || !domain.Level(parsed).Valid() {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidLevelError)
				return
			}
			level := domain.Level(parsed)
			filter.Level = &level
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := domain.ParseStatus(raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidStatusError)
				return
			}
			filter.Status = &status
		}

		users, err := userService.List(r.Context(), filter)
		if err != nil {
			log.Error("Failed to list users", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgListUsersFailed)
			return
		}
		if users == nil {
			users = []domain.User{}
		}

		respondJSON(w, http.StatusOK, ListUsersResponse{Users: users})
	}
}

// parseIDParam reads a positive int64 URL parameter, responding with a 400
// on malformed input.
func parseIDParam(w http.ResponseWriter, r *http.Request, name, errMsg string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, errMsg)
		return 0, false
	}
	return id, true
}
