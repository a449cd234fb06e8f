// api/controller/template_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	composer_errors "github.com/conditioncraft/composer/api/errors"
	"github.com/conditioncraft/composer/api/template"
	"github.com/conditioncraft/composer/api/util"
)

type TemplateController struct{}

func NewTemplateController() *TemplateController {
	return &TemplateController{}
}

// RegisterRoutes registers the API routes
func (tc *TemplateController) RegisterRoutes(r *gin.RouterGroup) {
	templates := r.Group("/templates")
	{
		templates.GET("", tc.ListTemplates)
		templates.GET("/common", tc.ListCommonTemplates)
		templates.GET("/categories", tc.ListTemplateCategories)
		templates.GET("/:id", tc.GetTemplate)
	}
}

// ListTemplates endpoint. Supports query and category filters; both
// are optional and combine.
func (tc *TemplateController) ListTemplates(c *gin.Context) {
	query := c.Query("query")
	category := c.Query("category")

	if query == "" && category == "" {
		c.JSON(http.StatusOK, gin.H{"templates": template.All()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": template.Search(query, category)})
}

// ListCommonTemplates endpoint
func (tc *TemplateController) ListCommonTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": template.Common()})
}

// ListTemplateCategories endpoint
func (tc *TemplateController) ListTemplateCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": template.Categories()})
}

// GetTemplate endpoint
func (tc *TemplateController) GetTemplate(c *gin.Context) {
	tmpl, ok := template.ByID(c.Param("id"))
	if !ok {
		util.RespondWithError(c, http.StatusNotFound, "Template not found", composer_errors.ErrTemplateNotFound)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}
