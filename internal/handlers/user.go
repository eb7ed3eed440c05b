package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/requestdata"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// actingUserID reads the authenticated user from the request context;
// uuid.Nil means anonymous.
func actingUserID(c *gin.Context) uuid.UUID {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		return uuid.Nil
	}
	return rd.UserID
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context(), actingUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, me)
}

func (uh *UserHandler) GetByID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, err := uh.userService.GetByID(c.Request.Context(), actingUserID(c), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, user)
}

func (uh *UserHandler) Subscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	view, err := uh.userService.Subscribe(c.Request.Context(), actingUserID(c), authorID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, view)
}

func (uh *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := uh.userService.Unsubscribe(c.Request.Context(), actingUserID(c), authorID); err != nil {
		RespondError(c, err)
		return
	}
	RespondNoContent(c)
}

func (uh *UserHandler) Subscriptions(c *gin.Context) {
	recipesLimit, _ := strconv.Atoi(c.Query("recipes_limit"))
	views, err := uh.userService.Subscriptions(c.Request.Context(), actingUserID(c), recipesLimit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"count": len(views), "results": views})
}
