package handlers

import (
	"net/http"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/middleware"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

type OnboardingResponse struct {
	Redirect string `json:"redirect" example:"/hints/setup"`
}

type FactionsResponse struct {
	Branches []string `json:"branches" example:"IT,DSBA,BIT,AIT"`
}

// GetMe godoc
// @Summary      Current user
// @Tags         profile
// @Produce      json
// @Success      200 {object} User
// @Failure      401 {object} ErrorResponse
// @Router       /api/rpc/profile.getMe [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// GetOnboarding godoc
// @Summary      Next onboarding step
// @Description  Empty redirect when the user is fully set up
// @Tags         profile
// @Produce      json
// @Success      200 {object} OnboardingResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/rpc/profile.getOnboarding [get]
func (h *ProfileHandler) GetOnboarding(c *gin.Context) {
	c.JSON(http.StatusOK, OnboardingResponse{Redirect: services.Onboarding(middleware.CurrentUser(c))})
}

// GetFactions godoc
// @Summary      Branches a participant can belong to
// @Tags         profile
// @Produce      json
// @Success      200 {object} FactionsResponse
// @Router       /api/rpc/profile.getFactions [get]
func (h *ProfileHandler) GetFactions(c *gin.Context) {
	c.JSON(http.StatusOK, FactionsResponse{Branches: services.Branches})
}
