package handlers

import (
	"net/http"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/cohort"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/middleware"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  *services.AuthService
	participants *services.ParticipantService
	emailDomain  string
	department   string
	secureCookie bool
}

func NewAuthHandler(authService *services.AuthService, participants *services.ParticipantService, emailDomain, department string, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		participants: participants,
		emailDomain:  emailDomain,
		department:   department,
		secureCookie: secureCookie,
	}
}

type SignInRequest struct {
	Email string `json:"email" binding:"required,email" example:"21070001@it.kmitl.ac.th"`
	Name  string `json:"name" binding:"max=255" example:"Somchai Jaidee"`
	Image string `json:"image" binding:"omitempty,url,max=500" example:"https://example.com/avatar.png"`
}

type SignInResponse struct {
	User     *User  `json:"user"`
	Redirect string `json:"redirect" example:"/register"`
}

// SignIn godoc
// @Summary      Sign in
// @Description  Called by the identity provider after a successful institutional login. Sets the session cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Identity-API-Key header string true "Identity provider key"
// @Param        request body SignInRequest true "Verified identity"
// @Success      200 {object} SignInResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/rpc/auth.signIn [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := cohort.CheckInstitutional(req.Email, h.emailDomain, h.department); err != nil {
		respondError(c, services.ErrUnauthorized)
		return
	}

	user, err := h.participants.SignIn(c.Request.Context(), req.Email, req.Name, req.Image)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.authService.IssueSession(user.ID, user.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.authService.TTL().Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, SignInResponse{User: user, Redirect: services.Onboarding(user)})
}

// SignOut godoc
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200 {object} MessageResponse
// @Router       /api/rpc/auth.signOut [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, MessageResponse{Message: "signed out"})
}
