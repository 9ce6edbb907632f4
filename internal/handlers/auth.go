package handlers

import (
	"errors"
	"net/http"

	"goalgrid/internal/auth"
	"goalgrid/internal/store"
	"goalgrid/internal/web"

	"github.com/gin-gonic/gin"
)

const passwordTooLong = "Password must be at most 72 bytes."

type credentialsForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type resetForm struct {
	Username    string `form:"username" binding:"required"`
	NewPassword string `form:"new_password" binding:"required"`
}

func (h *Handler) LoginPage(c *gin.Context) {
	page := web.Page{Title: "Log in"}
	switch {
	case c.Query("signed_up") != "":
		page.Notice = "Account created. Please log in."
	case c.Query("reset") != "":
		page.Notice = "Password updated. Please log in."
	}
	c.HTML(http.StatusOK, web.LoginPage, page)
}

func (h *Handler) Login(c *gin.Context) {
	request := &credentialsForm{}
	err := c.ShouldBind(request)
	if err != nil {
		c.HTML(http.StatusBadRequest, web.LoginPage, web.Page{
			Title: "Log in", Error: "Username and password are required.", Username: request.Username})
		return
	}

	request.Username = normalizeUsername(request.Username)
	token, user, err := h.sessions.Login(c.Request.Context(), request.Username, request.Password)
	if errors.Is(err, auth.ErrUsernameNotFound) {
		c.HTML(http.StatusUnauthorized, web.LoginPage, web.Page{
			Title: "Log in", Error: "Username not found.", Username: request.Username})
		return
	}
	if errors.Is(err, auth.ErrWrongPassword) {
		c.HTML(http.StatusUnauthorized, web.LoginPage, web.Page{
			Title: "Log in", Error: "Incorrect password.", Username: request.Username})
		return
	}
	if err != nil {
		h.internalError(c, "login", err)
		return
	}

	h.cookie.Set(c, token)
	h.logger.Info("user logged in", "user_id", user.ID)
	redirectAfterWrite(c, "/")
}

func (h *Handler) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, web.SignupPage, web.Page{Title: "Sign up"})
}

func (h *Handler) Signup(c *gin.Context) {
	request := &credentialsForm{}
	err := c.ShouldBind(request)
	request.Username = normalizeUsername(request.Username)
	if err != nil || request.Username == "" {
		c.HTML(http.StatusBadRequest, web.SignupPage, web.Page{
			Title: "Sign up", Error: "Username and password are required.", Username: request.Username})
		return
	}

	user, err := h.accounts.Create(c.Request.Context(), request.Username, request.Password)
	if errors.Is(err, store.ErrDuplicateUsername) {
		c.HTML(http.StatusConflict, web.SignupPage, web.Page{
			Title: "Sign up", Error: "Username already exists.", Username: request.Username})
		return
	}
	if errors.Is(err, store.ErrPasswordTooLong) {
		c.HTML(http.StatusBadRequest, web.SignupPage, web.Page{
			Title: "Sign up", Error: passwordTooLong, Username: request.Username})
		return
	}
	if err != nil {
		h.internalError(c, "signup", err)
		return
	}

	h.logger.Info("user signed up", "user_id", user.ID)
	redirectAfterWrite(c, "/login?signed_up=1")
}

func (h *Handler) Logout(c *gin.Context) {
	h.cookie.Clear(c)
	redirectAfterWrite(c, "/login")
}

func (h *Handler) ForgotPasswordPage(c *gin.Context) {
	c.HTML(http.StatusOK, web.ForgotPage, web.Page{Title: "Reset password"})
}

// ForgotPassword sets a new password for any account named in the form.
// There is no second factor: whoever knows a username can take the account.
func (h *Handler) ForgotPassword(c *gin.Context) {
	request := &resetForm{}
	err := c.ShouldBind(request)
	if err != nil {
		c.HTML(http.StatusBadRequest, web.ForgotPage, web.Page{
			Title: "Reset password", Error: "Username and new password are required.", Username: request.Username})
		return
	}

	request.Username = normalizeUsername(request.Username)
	err = h.accounts.ResetPassword(c.Request.Context(), request.Username, request.NewPassword)
	if errors.Is(err, store.ErrNotFound) {
		c.HTML(http.StatusNotFound, web.ForgotPage, web.Page{
			Title: "Reset password", Error: "Username not found.", Username: request.Username})
		return
	}
	if errors.Is(err, store.ErrPasswordTooLong) {
		c.HTML(http.StatusBadRequest, web.ForgotPage, web.Page{
			Title: "Reset password", Error: passwordTooLong, Username: request.Username})
		return
	}
	if err != nil {
		h.internalError(c, "reset password", err)
		return
	}

	h.logger.Warn("password reset without verification", "username", request.Username, "client_ip", c.ClientIP())
	redirectAfterWrite(c, "/login?reset=1")
}
