package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/services"
)

type TagHandler struct {
	tagService services.TagService
}

func NewTagHandler(tagService services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

func (th *TagHandler) List(c *gin.Context) {
	tags, err := th.tagService.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, tags)
}

func (th *TagHandler) GetByID(c *gin.Context) {
	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
		return
	}
	tag, err := th.tagService.GetByID(c.Request.Context(), tagID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, tag)
}
