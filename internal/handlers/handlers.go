package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"goalgrid/internal/auth"
	"goalgrid/internal/middleware"
	"goalgrid/internal/models"
	"goalgrid/internal/tasks"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// Accounts is the credential store as the handlers use it.
type Accounts interface {
	Create(ctx context.Context, username, password string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, username, description string) error
	ResetPassword(ctx context.Context, username, password string) error
}

type Handler struct {
	accounts Accounts
	sessions *auth.Sessions
	tasks    *tasks.Service
	cookie   middleware.SessionCookie
	logger   *log.Logger
	now      func() time.Time
}

func New(accounts Accounts, sessions *auth.Sessions, taskService *tasks.Service, cookie middleware.SessionCookie, logger *log.Logger) *Handler {
	return &Handler{
		accounts: accounts,
		sessions: sessions,
		tasks:    taskService,
		cookie:   cookie,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for "today" on the board.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// normalizeUsername trims surrounding space so signup, login and profile
// edits agree on what a username is.
func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func parseId(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// internalError logs err against the request and answers 500.
func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, "err", err, "request_id", middleware.RequestID(c))
	c.String(http.StatusInternalServerError, "internal error")
}

func redirectAfterWrite(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
