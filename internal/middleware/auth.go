package middleware

import (
	"errors"
	"net/http"
	"time"

	"goalgrid/internal/auth"
	"goalgrid/internal/models"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

const (
	userKey   = "goalgrid.user"
	LoginPath = "/login"
)

// SessionCookie describes the cookie carrying the session token.
type SessionCookie struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

func (sc SessionCookie) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, token, int(sc.MaxAge.Seconds()), "/", "", sc.Secure, true)
}

// Clear expires the cookie. It is safe to call without a session.
func (sc SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, "", -1, "/", "", sc.Secure, true)
}

func (sc SessionCookie) Token(c *gin.Context) string {
	token, err := c.Cookie(sc.Name)
	if err != nil {
		return ""
	}
	return token
}

// Auth resolves the session cookie to a user, redirecting anonymous
// requests to the login page.
func Auth(sessions *auth.Sessions, cookie SessionCookie, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := sessions.Resolve(c.Request.Context(), cookie.Token(c))
		if errors.Is(err, auth.ErrUnauthorized) {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		if err != nil {
			logger.Error("resolve session", "err", err, "request_id", RequestID(c))
			c.String(http.StatusInternalServerError, "internal error")
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by Auth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}
