// api/controller/catalog_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/conditioncraft/composer/api/catalog"
	composer_errors "github.com/conditioncraft/composer/api/errors"
	"github.com/conditioncraft/composer/api/model"
	"github.com/conditioncraft/composer/api/util"
)

type CatalogController struct{}

func NewCatalogController() *CatalogController {
	return &CatalogController{}
}

// RegisterRoutes registers the API routes
func (cc *CatalogController) RegisterRoutes(r *gin.RouterGroup) {
	cat := r.Group("/catalog")
	{
		cat.GET("/categories", cc.ListCategories)
		cat.GET("/attributes", cc.ListAttributes)
		cat.GET("/attributes/:id", cc.GetAttribute)
		cat.GET("/attributes/:id/operators", cc.ListAttributeOperators)
		cat.GET("/operators", cc.ListOperators)
	}
}

// ListCategories endpoint
func (cc *CatalogController) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": model.Categories()})
}

// ListAttributes endpoint. The optional category query parameter
// narrows the result to one category.
func (cc *CatalogController) ListAttributes(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		attributes := catalog.AttributesByCategory(model.Category(category))
		c.JSON(http.StatusOK, gin.H{"attributes": attributes})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attributes": catalog.Attributes()})
}

// GetAttribute endpoint
func (cc *CatalogController) GetAttribute(c *gin.Context) {
	attr, ok := catalog.AttributeByID(c.Param("id"))
	if !ok {
		util.RespondWithError(c, http.StatusNotFound, "Attribute not found", composer_errors.ErrUnknownAttribute)
		return
	}
	c.JSON(http.StatusOK, attr)
}

// ListAttributeOperators endpoint returns the operators valid for one
// attribute, in default-first order.
func (cc *CatalogController) ListAttributeOperators(c *gin.Context) {
	attr, ok := catalog.AttributeByID(c.Param("id"))
	if !ok {
		util.RespondWithError(c, http.StatusNotFound, "Attribute not found", composer_errors.ErrUnknownAttribute)
		return
	}
	c.JSON(http.StatusOK, gin.H{"operators": catalog.OperatorsForType(attr.ValueType)})
}

// ListOperators endpoint
func (cc *CatalogController) ListOperators(c *gin.Context) {
	if valueType := c.Query("value_type"); valueType != "" {
		c.JSON(http.StatusOK, gin.H{"operators": catalog.OperatorsForType(catalog.ValueType(valueType))})
		return
	}
	c.JSON(http.StatusOK, gin.H{"operators": catalog.Operators()})
}
