// api/controller/directory_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	composer_errors "github.com/conditioncraft/composer/api/errors"
	"github.com/conditioncraft/composer/api/model"
	"github.com/conditioncraft/composer/api/service"
	"github.com/conditioncraft/composer/api/util"
	helper_util "github.com/conditioncraft/composer/api/util/helper"
)

type DirectoryController struct {
	directoryService service.IDirectoryService
}

func NewDirectoryController(directoryService service.IDirectoryService) *DirectoryController {
	return &DirectoryController{
		directoryService: directoryService,
	}
}

// RegisterRoutes registers the API routes
func (dc *DirectoryController) RegisterRoutes(r *gin.RouterGroup) {
	directory := r.Group("/directory")
	{
		directory.GET("/:type", dc.SearchResources)
		directory.GET("/:type/:id", dc.GetResource)
		directory.POST("/validate-conditions", dc.ValidateConditions)
	}
}

// SearchResources endpoint backs the resource pickers.
func (dc *DirectoryController) SearchResources(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", composer_errors.ErrInvalidPagination)
		return
	}

	criteria := model.DirectorySearchCriteria{
		ResourceType: c.Param("type"),
		Query:        c.Query("query"),
		Limit:        limit,
		Offset:       offset,
	}

	entries, err := dc.directoryService.SearchResources(c, criteria)
	if err != nil {
		if errors.Is(err, composer_errors.ErrInvalidSearchCriteria) {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid search criteria", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to search directory", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetResource endpoint
func (dc *DirectoryController) GetResource(c *gin.Context) {
	entry, err := dc.directoryService.GetResource(c, c.Param("type"), c.Param("id"))
	if err != nil {
		if errors.Is(err, composer_errors.ErrResourceNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Resource not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch resource", err)
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// ValidateConditions endpoint exposes the directory-backed reference
// check in the same shape the external validator uses.
func (dc *DirectoryController) ValidateConditions(c *gin.Context) {
	var req model.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid condition data", composer_errors.ErrInvalidConditionData)
		return
	}

	result, err := dc.directoryService.CheckConditions(c, req.Conditions)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to validate conditions", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
