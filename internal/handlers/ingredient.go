package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/services"
)

type IngredientHandler struct {
	ingredientService services.IngredientService
}

func NewIngredientHandler(ingredientService services.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

func (ih *IngredientHandler) List(c *gin.Context) {
	ingredients, err := ih.ingredientService.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, ingredients)
}

func (ih *IngredientHandler) GetByID(c *gin.Context) {
	ingredientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return
	}
	ingredient, err := ih.ingredientService.GetByID(c.Request.Context(), ingredientID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, ingredient)
}
