package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/morena-chat/internal/domain"
)

// ListLanguages godoc
// @ID          listLanguages
// @Summary     List supported languages
// @Description Returns the eleven official South African languages with display names and greetings.
// @Tags        Languages
// @Produce     json
// @Success     200  {array}  domain.Language
// @Router      /languages [get]
func (h *Handlers) ListLanguages(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	ok(c, http.StatusOK, domain.Languages())
}
