// api/controller/session_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	composer_errors "github.com/conditioncraft/composer/api/errors"
	"github.com/conditioncraft/composer/api/model"
	"github.com/conditioncraft/composer/api/service"
	"github.com/conditioncraft/composer/api/util"
)

type SessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

// RegisterRoutes registers the API routes
func (sc *SessionController) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/sessions")
	{
		sessions.POST("", sc.CreateSession)
		sessions.GET("/:id", sc.GetSession)
		sessions.DELETE("/:id", sc.DeleteSession)

		sessions.POST("/:id/conditions", sc.AddCondition)
		sessions.PUT("/:id/conditions", sc.ReplaceConditions)
		sessions.DELETE("/:id/conditions", sc.ClearConditions)
		sessions.DELETE("/:id/conditions/:conditionId", sc.RemoveCondition)
		sessions.PUT("/:id/conditions/:conditionId/category", sc.SetCategory)
		sessions.PUT("/:id/conditions/:conditionId/attribute", sc.SetAttribute)
		sessions.PUT("/:id/conditions/:conditionId/operator", sc.SetOperator)
		sessions.PUT("/:id/conditions/:conditionId/value", sc.SetValue)

		sessions.PUT("/:id/logic", sc.SetLogic)
		sessions.POST("/:id/template", sc.ApplyTemplate)

		sessions.GET("/:id/validation", sc.Validate)
		sessions.GET("/:id/translation", sc.Translate)
		sessions.GET("/:id/snapshot", sc.Snapshot)

		sessions.POST("/:id/references/check", sc.CheckReferences)
		sessions.POST("/:id/references/refresh", sc.RefreshReferences)
		sessions.GET("/:id/references/warnings", sc.ReferenceWarnings)
		sessions.DELETE("/:id/references/warnings", sc.DismissReferenceWarnings)
	}
}

// CreateSession endpoint
func (sc *SessionController) CreateSession(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", composer_errors.ErrUnauthorized)
		return
	}

	view, err := sc.sessionService.CreateSession(c, userID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to create session", composer_errors.ErrInternalServer)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// GetSession endpoint
func (sc *SessionController) GetSession(c *gin.Context) {
	view, err := sc.sessionService.GetSession(c, c.Param("id"))
	if err != nil {
		sc.respondSessionError(c, err, "Failed to fetch session")
		return
	}

	c.JSON(http.StatusOK, view)
}

// DeleteSession endpoint
func (sc *SessionController) DeleteSession(c *gin.Context) {
	userID, _ := util.GetUserIDFromContext(c)
	if err := sc.sessionService.DeleteSession(c, userID, c.Param("id")); err != nil {
		sc.respondSessionError(c, err, "Failed to delete session")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddCondition endpoint
func (sc *SessionController) AddCondition(c *gin.Context) {
	userID, _ := util.GetUserIDFromContext(c)
	cond, err := sc.sessionService.AddCondition(c, userID, c.Param("id"))
	if err != nil {
		sc.respondSessionError(c, err, "Failed to add condition")
		return
	}

	c.JSON(http.StatusCreated, cond)
}

// RemoveCondition endpoint
func (sc *SessionController) RemoveCondition(c *gin.Context) {
	userID, _ := util.GetUserIDFromContext(c)
	if err := sc.sessionService.RemoveCondition(c, userID, c.Param("id"), c.Param("conditionId")); err != nil {
		sc.respondSessionError(c, err, "Failed to remove condition")
		return
	}

	c.Status(http.StatusNoContent)
}

// SetCategory endpoint
func (sc *SessionController) SetCategory(c *gin.Context) {
	var body struct {
		Category model.Category `json:"category"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid condition data", composer_errors.ErrInvalidConditionData)
		return
	}

	userID, _ := util.GetUserIDFromContext(c)
	if err := sc.sessionService.SetCategory(c, userID, c.Param("id"), c.Param("conditionId"), body.Category); err != nil {
		sc.respondSessionError(c, err, "Failed to set category")
		return
	}

	c.Status(http.StatusNoContent)
}

// SetAttribute endpoint
func (sc *SessionController) SetAttribute(c *gin.Context) {
	var body struct {
		Attribute string `json:"attribute"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid condition data", composer_errors.ErrInvalidConditionData)
		return
	}

	userID, _ := util.GetUserIDFromContext(c)
	if err := sc.sessionService.SetAttribute(c, userID, c.Param("id"), c.Param("conditionId"), body.Attribute); err != nil {
		sc.respondSessionError(c, err, "Failed to set attribute")
		return
	}

	c.Status(http.StatusNoContent)
}

// SetOperator endpoint
func (sc *SessionController) SetOperator(c *gin.Context) {
	var body struct {
		Operator string `json:"operator"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid condition data", composer_errors.ErrInvalidConditionData)
		return
	}

	userID, _ := util.GetUserIDFromContext(c)
	if err := sc.sessionService.SetOperator(c, userID, c.Param("id"), c.Param("conditionId"), body.Operator); err != nil {
		sc.respondSessionError(c, err, "Failed to set operator")
		return
	}

	c.Status(http.StatusNoContent)
}

// SetValue endpoint
func (sc *SessionController) SetValue(c *gin.Context) {
	var body struct {
		Value json.RawMessage `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid condition data", composer_errors.ErrInvalidConditionData)
		return
	}

	value, err := model.DecodeValue(body.Value)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid condition value", composer_errors.ErrInvalidConditionData)
		return
	}

	userID, _ := util.GetUserIDFromContext(c)
	if err := sc.sessionService.SetValue(c, userID, c.Param("id"), c.Param("conditionId"), value); err != nil {
		sc.respondSessionError(c, err, "Failed to set value")
		return
	}

	c.Status(http.StatusNoContent)
}

// SetLogic endpoint
func (sc *SessionController) SetLogic(c *gin.Context) {
	var body struct {
		Logic model.GroupLogic `json:"logic"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid group logic", composer_errors.ErrInvalidLogic)
		return
	}

	userID, _ := util.GetUserIDFromContext(c)
	if err := sc.sessionService.SetLogic(c, userID, c.Param("id"), body.Logic); err != nil {
		sc.respondSessionError(c, err, "Failed to set logic")
		return
	}

	c.Status(http.StatusNoContent)
}

// ApplyTemplate endpoint
func (sc *SessionController) ApplyTemplate(c *gin.Context) {
	var body struct {
		TemplateID string `json:"template_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid template request", composer_errors.ErrInvalidConditionData)
		return
	}

	userID, _ := util.GetUserIDFromContext(c)
	if err := sc.sessionService.ApplyTemplate(c, userID, c.Param("id"), body.TemplateID); err != nil {
		sc.respondSessionError(c, err, "Failed to apply template")
		return
	}

	view, err := sc.sessionService.GetSession(c, c.Param("id"))
	if err != nil {
		sc.respondSessionError(c, err, "Failed to fetch session")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ClearConditions endpoint
func (sc *SessionController) ClearConditions(c *gin.Context) {
	userID, _ := util.GetUserIDFromContext(c)
	if err := sc.sessionService.ClearConditions(c, userID, c.Param("id")); err != nil {
		sc.respondSessionError(c, err, "Failed to clear conditions")
		return
	}

	c.Status(http.StatusNoContent)
}

// ReplaceConditions endpoint
func (sc *SessionController) ReplaceConditions(c *gin.Context) {
	var body struct {
		Conditions []model.PolicyCondition `json:"conditions"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid condition data", composer_errors.ErrInvalidConditionData)
		return
	}

	userID, _ := util.GetUserIDFromContext(c)
	if err := sc.sessionService.ReplaceConditions(c, userID, c.Param("id"), body.Conditions); err != nil {
		sc.respondSessionError(c, err, "Failed to replace conditions")
		return
	}

	c.Status(http.StatusNoContent)
}

// Validate endpoint
func (sc *SessionController) Validate(c *gin.Context) {
	result, err := sc.sessionService.Validate(c, c.Param("id"))
	if err != nil {
		sc.respondSessionError(c, err, "Failed to validate conditions")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Translate endpoint
func (sc *SessionController) Translate(c *gin.Context) {
	sentence, err := sc.sessionService.Translate(c, c.Param("id"))
	if err != nil {
		sc.respondSessionError(c, err, "Failed to translate conditions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sentence": sentence})
}

// Snapshot endpoint
func (sc *SessionController) Snapshot(c *gin.Context) {
	group, err := sc.sessionService.Snapshot(c, c.Param("id"))
	if err != nil {
		sc.respondSessionError(c, err, "Failed to fetch snapshot")
		return
	}

	c.JSON(http.StatusOK, group)
}

// CheckReferences endpoint
func (sc *SessionController) CheckReferences(c *gin.Context) {
	outcome, err := sc.sessionService.CheckReferences(c, c.Param("id"))
	if err != nil {
		sc.respondSessionError(c, err, "Failed to check references")
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// RefreshReferences endpoint
func (sc *SessionController) RefreshReferences(c *gin.Context) {
	outcome, err := sc.sessionService.RefreshReferences(c, c.Param("id"))
	if err != nil {
		sc.respondSessionError(c, err, "Failed to refresh references")
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// ReferenceWarnings endpoint
func (sc *SessionController) ReferenceWarnings(c *gin.Context) {
	warnings, err := sc.sessionService.ReferenceWarnings(c, c.Param("id"))
	if err != nil {
		sc.respondSessionError(c, err, "Failed to fetch reference warnings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"warnings": warnings})
}

// DismissReferenceWarnings endpoint
func (sc *SessionController) DismissReferenceWarnings(c *gin.Context) {
	if err := sc.sessionService.DismissReferenceWarnings(c, c.Param("id")); err != nil {
		sc.respondSessionError(c, err, "Failed to dismiss reference warnings")
		return
	}

	c.Status(http.StatusNoContent)
}

func (sc *SessionController) respondSessionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, composer_errors.ErrSessionNotFound):
		util.RespondWithError(c, http.StatusNotFound, "Session not found", err)
	case errors.Is(err, composer_errors.ErrTemplateNotFound):
		util.RespondWithError(c, http.StatusNotFound, "Template not found", err)
	case errors.Is(err, composer_errors.ErrCheckInProgress):
		util.RespondWithError(c, http.StatusConflict, "Reference check already in progress", err)
	case errors.Is(err, composer_errors.ErrUnknownAttribute),
		errors.Is(err, composer_errors.ErrInvalidCategory),
		errors.Is(err, composer_errors.ErrInvalidLogic),
		errors.Is(err, composer_errors.ErrInvalidConditionData):
		util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, fallback, err)
	}
}
