package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/media"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/repos"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/services"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
)

type RecipeHandler struct {
	log                 *logger.Logger
	recipeService       services.RecipeService
	membershipService   services.MembershipService
	shoppingListService services.ShoppingListService
	mediaStore          media.Store
}

func NewRecipeHandler(
	log *logger.Logger,
	recipeService services.RecipeService,
	membershipService services.MembershipService,
	shoppingListService services.ShoppingListService,
	mediaStore media.Store,
) *RecipeHandler {
	return &RecipeHandler{
		log:                 log,
		recipeService:       recipeService,
		membershipService:   membershipService,
		shoppingListService: shoppingListService,
		mediaStore:          mediaStore,
	}
}

func (rh *RecipeHandler) List(c *gin.Context) {
	filter := repos.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = authorID
	}
	viewer := actingUserID(c)
	if isTruthy(c.Query("is_favorited")) {
		filter.FavoritedBy = viewer
	}
	if isTruthy(c.Query("is_in_shopping_cart")) {
		filter.InCartOf = viewer
	}
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))

	page, err := rh.recipeService.List(c.Request.Context(), viewer, filter)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, page)
}

func (rh *RecipeHandler) GetByID(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	view, err := rh.recipeService.GetByID(c.Request.Context(), actingUserID(c), recipeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, view)
}

func (rh *RecipeHandler) Create(c *gin.Context) {
	input, ok := rh.bindInput(c)
	if !ok {
		return
	}
	view, err := rh.recipeService.Create(c.Request.Context(), actingUserID(c), input)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, view)
}

func (rh *RecipeHandler) Update(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	input, ok := rh.bindInput(c)
	if !ok {
		return
	}
	view, err := rh.recipeService.Update(c.Request.Context(), actingUserID(c), recipeID, input)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, view)
}

func (rh *RecipeHandler) Delete(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	if err := rh.recipeService.Delete(c.Request.Context(), actingUserID(c), recipeID); err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

// bindInput decodes the request body and persists an inline base64
// image before the authoring transaction runs.
func (rh *RecipeHandler) bindInput(c *gin.Context) (services.RecipeInput, bool) {
	var input services.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return input, false
	}
	if input.Image != "" {
		path, err := rh.mediaStore.SaveBase64Image(input.Image)
		if err != nil {
			RespondError(c, err)
			return input, false
		}
		input.Image = path
	}
	return input, true
}

func (rh *RecipeHandler) AddFavorite(c *gin.Context)    { rh.addMembership(c, types.KindFavorite) }
func (rh *RecipeHandler) RemoveFavorite(c *gin.Context) { rh.removeMembership(c, types.KindFavorite) }
func (rh *RecipeHandler) AddToCart(c *gin.Context)      { rh.addMembership(c, types.KindCart) }
func (rh *RecipeHandler) RemoveFromCart(c *gin.Context) { rh.removeMembership(c, types.KindCart) }

func (rh *RecipeHandler) addMembership(c *gin.Context, kind types.MembershipKind) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	view, err := rh.membershipService.Add(c.Request.Context(), actingUserID(c), recipeID, kind)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, view)
}

func (rh *RecipeHandler) removeMembership(c *gin.Context, kind types.MembershipKind) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	if err := rh.membershipService.Remove(c.Request.Context(), actingUserID(c), recipeID, kind); err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

func (rh *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	list, err := rh.shoppingListService.Aggregate(c.Request.Context(), actingUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	if strings.EqualFold(c.Query("format"), "csv") {
		data, err := rh.shoppingListService.RenderCSV(list)
		if err != nil {
			RespondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="shopping_cart.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="shopping_cart.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(rh.shoppingListService.RenderText(list)))
}

func isTruthy(val string) bool {
	switch strings.ToLower(val) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
