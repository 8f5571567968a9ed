package middleware

import (
	"context"
	"net/http"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/cohort"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/models"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const (
	SessionCookie = "sairahut_session"

	userKey = "user"
)

// UserLoader resolves a session subject to the user and their participant details.
type UserLoader interface {
	GetMe(ctx context.Context, userID uint) (*models.User, error)
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":  services.KindUnauthorized,
		"error": msg,
	})
}

// CurrentUser returns the user resolved by Session, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// Session resolves the session cookie to a user. It never rejects; the
// Require* gates decide what an anonymous request may reach.
func Session(authService *services.AuthService, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		userID, err := authService.ValidateSession(token)
		if err != nil {
			c.Next()
			return
		}

		user, err := users.GetMe(c.Request.Context(), userID)
		if err == nil {
			c.Set(userKey, user)
		}
		c.Next()
	}
}

func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			unauthorized(c, "You must be logged in to do this")
			return
		}
		c.Next()
	}
}

// RequireReady admits users that finished registration as either cohort.
func RequireReady() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.Ready() {
			unauthorized(c, "You must be logged in to do this")
			return
		}
		c.Next()
	}
}

func RequireCohort(pred cohort.Predicate) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			unauthorized(c, "You must be logged in to do this")
			return
		}
		got, err := cohort.Classify(user.Email)
		if err != nil || !pred(got) {
			unauthorized(c, "You must be logged in to do this")
			return
		}
		c.Next()
	}
}

// AdminAuth checks X-Admin-Key against a bcrypt hash. An empty hash locks
// the admin routes.
func AdminAuth(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Admin-Key")
		if keyHash == "" || key == "" ||
			bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)) != nil {
			unauthorized(c, "invalid admin key")
			return
		}
		c.Next()
	}
}

// IdentityAuth admits the identity provider's sign-in callback.
func IdentityAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Identity-API-Key")
		if apiKey == "" || key == "" || key != apiKey {
			unauthorized(c, "invalid identity API key")
			return
		}
		c.Next()
	}
}
