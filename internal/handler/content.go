package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fdilabs/LevelGate_Go/internal/content"
	"github.com/fdilabs/LevelGate_Go/internal/domain"
	"github.com/fdilabs/LevelGate_Go/internal/logger"
)

// PublishContentRequest represents a publish request
type PublishContentRequest struct {
	Title    string  `json:"title" validate:"required,max=256"`
	Body     string  `json:"body" validate:"required"`
	Link     string  `json:"link" validate:"omitempty,max=2048"`
	AuthorID int64   `json:"author_id"`
	Levels   []int   `json:"levels" validate:"dive,access_level"`
	UserIDs  []int64 `json:"user_ids"`
}

// ContentHistoryResponse wraps the publishing history
type ContentHistoryResponse struct {
	Contents []domain.ContentWithLevels `json:"contents"`
}

// NotifyContentRequest targets one level's channel with a stored content
type NotifyContentRequest struct {
	Level int `json:"level" validate:"required,access_level"`
}

// HandlePublishContent stores a content with its visibility targets
// @Summary Publish content
// @Description Stores a content visible to the given levels and/or individual users.
// @Tags contents
// @Accept json
// @Produce json
// @Param request body PublishContentRequest true "Publish request"
// @Success 201 {object} domain.Content
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/contents/publish [post]
func HandlePublishContent(contentService content.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req PublishContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode publish content request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Publish content validation failed")
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		levels := make([]domain.Level, 0, len(req.Levels))
		for _, l := range req.Levels {
			levels = append(levels, domain.Level(l))
		}

		published, err := contentService.Publish(r.Context(), content.PublishInput{
			Title:    req.Title,
			Body:     req.Body,
			Link:     req.Link,
			AuthorID: req.AuthorID,
			Levels:   levels,
			UserIDs:  req.UserIDs,
		})
		if err != nil {
			log.Error("Failed to publish content", "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusCreated, published)
	}
}

// HandleContentHistory lists published contents, newest first
// @Summary Content history
// @Tags contents
// @Produce json
// @Success 200 {object} ContentHistoryResponse
// @Router /api/v1/contents/history [get]
func HandleContentHistory(contentService content.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		contents, err := contentService.History(r.Context())
		if err != nil {
			log.Error("Failed to retrieve content history", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgHistoryFailed)
			return
		}
		if contents == nil {
			contents = []domain.ContentWithLevels{}
		}

		respondJSON(w, http.StatusOK, ContentHistoryResponse{Contents: contents})
	}
}

// HandleNotifyContent pushes a stored content into the channel of a level
// @Summary Notify a level channel
// @Description Posts the content into the channel configured for the level. An unconfigured level is an error.
// @Tags contents
// @Accept json
// @Produce json
// @Param id path int true "Content ID"
// @Param request body NotifyContentRequest true "Target level"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/contents/{id}/notify [post]
func HandleNotifyContent(contentService content.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		contentID, ok := parseIDParam(w, r, "id", ErrMsgInvalidContentID)
		if !ok {
			return
		}

		var req NotifyContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode notify content request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Notify content validation failed", "content_id", contentID)
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		if err := contentService.Notify(r.Context(), contentID, domain.Level(req.Level)); err != nil {
			log.Error("Failed to notify channel", "error", err, "content_id", contentID, "level", req.Level)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: "content posted"})
	}
}
