package handlers

import (
	"errors"
	"net/http"

	"goalgrid/internal/middleware"
	"goalgrid/internal/store"
	"goalgrid/internal/web"

	"github.com/gin-gonic/gin"
)

type profileForm struct {
	Username    string `form:"username" binding:"required"`
	Description string `form:"description"`
}

func (h *Handler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	page := web.Page{Title: "Profile", User: user, Username: user.Username, Description: user.Description}
	if c.Query("saved") != "" {
		page.Notice = "Profile updated."
	}
	c.HTML(http.StatusOK, web.ProfilePage, page)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	request := &profileForm{}
	err := c.ShouldBind(request)
	request.Username = normalizeUsername(request.Username)
	if err != nil || request.Username == "" {
		c.HTML(http.StatusBadRequest, web.ProfilePage, web.Page{
			Title: "Profile", User: user, Error: "Username is required.",
			Username: user.Username, Description: request.Description})
		return
	}

	err = h.accounts.UpdateProfile(c.Request.Context(), user.ID, request.Username, request.Description)
	if errors.Is(err, store.ErrDuplicateUsername) {
		c.HTML(http.StatusConflict, web.ProfilePage, web.Page{
			Title: "Profile", User: user, Error: "Username already exists.",
			Username: request.Username, Description: request.Description})
		return
	}
	if err != nil {
		h.internalError(c, "update profile", err)
		return
	}

	redirectAfterWrite(c, "/profile?saved=1")
}
