package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/cohort"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/models"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers map[uint]*models.User

func (f fakeUsers) GetMe(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, services.ErrUserNotFound
}

var (
	freshman = &models.User{ID: 1, Email: "21070001@it.kmitl.ac.th", Freshman: &models.Freshman{ID: 1}}
	newcomer = &models.User{ID: 2, Email: "21070002@it.kmitl.ac.th"}
	senior   = &models.User{ID: 3, Email: "20070001@it.kmitl.ac.th", Sophomore: &models.Sophomore{ID: 1}}
)

func newRouter(auth *services.AuthService, gates ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Session(auth, fakeUsers{1: freshman, 2: newcomer, 3: senior}))
	handlers := append(gates, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/", handlers...)
	return r
}

func do(t *testing.T, r http.Handler, auth *services.AuthService, user *models.User) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if user != nil {
		token, err := auth.IssueSession(user.ID, user.Email)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestGates(t *testing.T) {
	auth := services.NewAuthService("test-secret", time.Hour)

	tests := []struct {
		name  string
		gates []gin.HandlerFunc
		user  *models.User
		want  int
	}{
		{"anonymous passes session", nil, nil, http.StatusOK},
		{"anonymous rejected", []gin.HandlerFunc{RequireAuthenticated()}, nil, http.StatusUnauthorized},
		{"authenticated", []gin.HandlerFunc{RequireAuthenticated()}, newcomer, http.StatusOK},
		{"not ready", []gin.HandlerFunc{RequireAuthenticated(), RequireReady()}, newcomer, http.StatusUnauthorized},
		{"ready freshman", []gin.HandlerFunc{RequireReady(), RequireCohort(cohort.IsFreshman)}, freshman, http.StatusOK},
		{"sophomore on freshman route", []gin.HandlerFunc{RequireReady(), RequireCohort(cohort.IsFreshman)}, senior, http.StatusUnauthorized},
		{"sophomore route", []gin.HandlerFunc{RequireReady(), RequireCohort(cohort.IsSophomoreOrOlder)}, senior, http.StatusOK},
		{"freshman on sophomore route", []gin.HandlerFunc{RequireCohort(cohort.IsSophomoreOrOlder)}, freshman, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(auth, tt.gates...)
			if got := do(t, r, auth, tt.user); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSessionIgnoresForeignToken(t *testing.T) {
	auth := services.NewAuthService("test-secret", time.Hour)
	forged := services.NewAuthService("forged", time.Hour)
	r := newRouter(auth, RequireAuthenticated())

	if got := do(t, r, forged, freshman); got != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", got)
	}
}

func TestAdminAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	tests := []struct {
		name string
		hash string
		key  string
		want int
	}{
		{"valid", string(hash), "letmein", http.StatusOK},
		{"wrong key", string(hash), "guess", http.StatusUnauthorized},
		{"missing key", string(hash), "", http.StatusUnauthorized},
		{"locked", "", "letmein", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", AdminAuth(tt.hash), func(c *gin.Context) { c.Status(http.StatusOK) })
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.key != "" {
				req.Header.Set("X-Admin-Key", tt.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestIdentityAuth(t *testing.T) {
	r := gin.New()
	r.POST("/", IdentityAuth("k"), func(c *gin.Context) { c.Status(http.StatusOK) })

	for key, want := range map[string]int{"k": http.StatusOK, "x": http.StatusUnauthorized, "": http.StatusUnauthorized} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Identity-API-Key", key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("key %q: status = %d, want %d", key, w.Code, want)
		}
	}
}

type countingLimiter struct {
	limit int
	seen  map[string]int
	err   error
}

func (l *countingLimiter) Allow(_ context.Context, key string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.seen[key]++
	return l.seen[key] <= l.limit, nil
}

func TestRateLimit(t *testing.T) {
	auth := services.NewAuthService("test-secret", time.Hour)
	limiter := &countingLimiter{limit: 2, seen: map[string]int{}}
	r := newRouter(auth, RequireReady(), RateLimit(limiter, "redeem"))

	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		if got := do(t, r, auth, freshman); got != want {
			t.Errorf("attempt %d: status = %d, want %d", i, got, want)
		}
	}
	if limiter.seen["redeem:user:1"] != 3 {
		t.Errorf("seen = %v", limiter.seen)
	}
	// Other users have their own budget.
	if got := do(t, r, auth, senior); got != http.StatusOK {
		t.Errorf("other user status = %d, want 200", got)
	}

	limiter.err = errors.New("redis down")
	if got := do(t, r, auth, freshman); got != http.StatusOK {
		t.Errorf("limiter outage status = %d, want 200", got)
	}
}
