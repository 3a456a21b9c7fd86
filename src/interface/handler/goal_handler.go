package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"goal-app/src/domain"
	"goal-app/src/middleware"
	"goal-app/src/usecase"
	"goal-app/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GoalHandler handles HTTP requests for goal operations
type GoalHandler struct {
	goalUsecase usecase.GoalUsecase
	validator   *validator.GoalValidator
	logger      *logrus.Logger
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalUsecase usecase.GoalUsecase, v *validator.GoalValidator, logger *logrus.Logger) *GoalHandler {
	return &GoalHandler{
		goalUsecase: goalUsecase,
		validator:   v,
		logger:      logger,
	}
}

// ListGoals returns one page of goals matching the query parameters
func (h *GoalHandler) ListGoals(c *gin.Context) {
	q, err := h.validator.ParseGoalQuery(queryParams(c))
	if err != nil {
		h.respondError(c, "Invalid query parameters", err)
		return
	}

	page, err := h.goalUsecase.ListGoals(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, "Failed to get goals", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GoalStats aggregates the goals matching the query parameters
func (h *GoalHandler) GoalStats(c *gin.Context) {
	q, err := h.validator.ParseGoalQuery(queryParams(c))
	if err != nil {
		h.respondError(c, "Invalid query parameters", err)
		return
	}

	stats, err := h.goalUsecase.GoalStats(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, "Failed to get stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// CreateGoal creates a new goal
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}

	goal, err := h.goalUsecase.CreateGoal(c.Request.Context(), req.toInput())
	if err != nil {
		h.respondError(c, "Failed to create goal", err)
		return
	}

	h.logger.WithField("goal_id", goal.ID).Info("ゴールを作成しました")
	c.JSON(http.StatusCreated, GoalResponseDTO{Item: goal})
}

// UpdateGoal applies a partial update to an existing goal
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateGoalRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}

	goal, err := h.goalUsecase.UpdateGoal(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.respondError(c, "Failed to update goal", err)
		return
	}

	h.logger.WithField("goal_id", id).Info("ゴールを更新しました")
	c.JSON(http.StatusOK, GoalResponseDTO{Item: goal})
}

// ToggleGoal flips the completed flag of a goal
func (h *GoalHandler) ToggleGoal(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	goal, err := h.goalUsecase.ToggleGoal(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "Failed to toggle goal", err)
		return
	}

	c.JSON(http.StatusOK, GoalResponseDTO{Item: goal})
}

// ArchiveGoal sets the archived flag; an empty body flips it
func (h *GoalHandler) ArchiveGoal(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req ArchiveGoalRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}

	goal, err := h.goalUsecase.ArchiveGoal(c.Request.Context(), id, domain.ArchiveGoalInput{Archived: req.Archived})
	if err != nil {
		h.respondError(c, "Failed to archive goal", err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"goal_id":  id,
		"archived": goal.Archived,
	}).Info("ゴールのアーカイブ状態を変更しました")
	c.JSON(http.StatusOK, GoalResponseDTO{Item: goal})
}

// DuplicateForTomorrow clones a goal with tomorrow's due date
func (h *GoalHandler) DuplicateForTomorrow(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	goal, err := h.goalUsecase.DuplicateForTomorrow(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "Failed to duplicate goal", err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"source_id": id,
		"goal_id":   goal.ID,
	}).Info("ゴールを複製しました")
	c.JSON(http.StatusCreated, GoalResponseDTO{Item: goal})
}

// DeleteGoal deletes a goal
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.goalUsecase.DeleteGoal(c.Request.Context(), id); err != nil {
		h.respondError(c, "Failed to delete goal", err)
		return
	}

	h.logger.WithField("goal_id", id).Info("ゴールを削除しました")
	c.Status(http.StatusNoContent)
}

// CompleteAll marks every incomplete goal completed
func (h *GoalHandler) CompleteAll(c *gin.Context) {
	updated, err := h.goalUsecase.CompleteAll(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to complete goals", err)
		return
	}

	c.JSON(http.StatusOK, UpdatedResponseDTO{Updated: updated})
}

// ClearCompleted removes every completed goal
func (h *GoalHandler) ClearCompleted(c *gin.Context) {
	deleted, err := h.goalUsecase.ClearCompleted(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to clear completed goals", err)
		return
	}

	c.JSON(http.StatusOK, DeletedResponseDTO{Deleted: deleted})
}

// ExportGoals returns the whole collection as a downloadable JSON file
func (h *GoalHandler) ExportGoals(c *gin.Context) {
	export, err := h.goalUsecase.ExportGoals(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to export goals", err)
		return
	}

	filename := fmt.Sprintf("goals-export-%s.json", domain.Today(export.ExportedAt))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, export)
}

// ImportGoals loads a batch of goals in replace or merge mode
func (h *GoalHandler) ImportGoals(c *gin.Context) {
	var req ImportGoalsRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}

	if req.Items == nil {
		h.respondError(c, "Failed to import goals",
			domain.NewValidationError("items", "required", "items must be an array"))
		return
	}

	items := make([]map[string]any, len(req.Items))
	for i, raw := range req.Items {
		item, ok := raw.(map[string]any)
		if !ok {
			h.respondError(c, "Failed to import goals", &domain.ImportError{Index: i, Message: "item must be an object"})
			return
		}
		items[i] = item
	}

	result, err := h.goalUsecase.ImportGoals(c.Request.Context(), req.Mode, items)
	if err != nil {
		h.respondError(c, "Failed to import goals", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// bindJSON decodes the request body; an empty body decodes as {}
func (h *GoalHandler) bindJSON(c *gin.Context, dst any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WithError(err).Warn("リクエストのバインドに失敗")
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid request format",
			Message: err.Error(),
		})
		return false
	}
	return true
}

func (h *GoalHandler) pathID(c *gin.Context) (int, bool) {
	id, err := h.validator.ParseID(c.Param("id"))
	if err != nil {
		h.respondError(c, "Invalid goal ID", err)
		return 0, false
	}
	return id, true
}

// respondError maps the error taxonomy onto HTTP status codes
func (h *GoalHandler) respondError(c *gin.Context, summary string, err error) {
	var (
		validationErr  *domain.ValidationError
		importErr      *domain.ImportError
		notFoundErr    *domain.NotFoundError
		persistenceErr *domain.PersistenceError
	)

	resp := ErrorResponseDTO{Error: summary, Message: err.Error()}
	status := http.StatusInternalServerError

	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		resp.Field = validationErr.Field
	case errors.As(err, &importErr):
		status = http.StatusBadRequest
		index := importErr.Index
		resp.Index = &index
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
	case errors.As(err, &persistenceErr):
		// 内部の詳細はクライアントに返さない
		resp.Message = "failed to save goals"
	}

	entry := h.logger.WithError(err).WithFields(logrus.Fields{
		"request_id": middleware.RequestID(c),
		"method":     c.Request.Method,
		"uri":        c.Request.RequestURI,
		"status":     status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error(summary)
	} else {
		entry.Warn(summary)
	}

	c.JSON(status, resp)
}

// queryParams flattens the recognized query parameters to their first value
func queryParams(c *gin.Context) map[string]string {
	values := c.Request.URL.Query()
	params := make(map[string]string, len(validator.QueryParams))
	for _, key := range validator.QueryParams {
		if v := values.Get(key); v != "" {
			params[key] = v
		}
	}
	return params
}
