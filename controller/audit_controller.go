// api/controller/audit_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/conditioncraft/composer/api/audit"
	composer_errors "github.com/conditioncraft/composer/api/errors"
	"github.com/conditioncraft/composer/api/util"
	helper_util "github.com/conditioncraft/composer/api/util/helper"
)

type AuditController struct {
	auditService audit.Service
}

func NewAuditController(auditService audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AuditController) RegisterRoutes(r *gin.RouterGroup) {
	logs := r.Group("/audit")
	{
		logs.GET("/logs", ac.QueryLogs)
	}
}

// QueryLogs endpoint returns condition change records in a time
// window, optionally filtered by user or session.
func (ac *AuditController) QueryLogs(c *gin.Context) {
	to := time.Now().UTC()
	from := to.Add(-24 * time.Hour)

	var err error
	if s := c.Query("from"); s != "" {
		if from, err = helper_util.ParseTime(s); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' timestamp", err)
			return
		}
	}
	if s := c.Query("to"); s != "" {
		if to, err = helper_util.ParseTime(s); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid 'to' timestamp", err)
			return
		}
	}

	logs, err := ac.auditService.QueryLogs(c, from, to, c.Query("user_id"), c.Query("session_id"))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query audit logs", composer_errors.ErrInternalServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
