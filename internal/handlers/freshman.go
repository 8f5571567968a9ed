package handlers

import (
	"net/http"
	"strings"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/middleware"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/services"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/ws"

	"github.com/gin-gonic/gin"
)

type FreshmanHandler struct {
	participants *services.ParticipantService
	passcodes    *services.PasscodeService
	hints        *services.HintService
	pairs        *services.PairService
	hub          *ws.Hub
}

func NewFreshmanHandler(participants *services.ParticipantService, passcodes *services.PasscodeService, hints *services.HintService, pairs *services.PairService, hub *ws.Hub) *FreshmanHandler {
	return &FreshmanHandler{
		participants: participants,
		passcodes:    passcodes,
		hints:        hints,
		pairs:        pairs,
		hub:          hub,
	}
}

type RegisterFreshmanRequest struct {
	FirstName    string `json:"first_name" binding:"required,max=100" example:"Nok"`
	LastName     string `json:"last_name" binding:"required,max=100" example:"Sky"`
	Nickname     string `json:"nickname" binding:"required,max=50" example:"Nok"`
	Branch       string `json:"branch" binding:"required,oneof=IT DSBA BIT AIT" example:"IT"`
	Phone        string `json:"phone" binding:"omitempty,max=20" example:"0812345678"`
	FacebookURL  string `json:"facebook_url" binding:"omitempty,url,max=500" example:"https://facebook.com/nok"`
	InstagramURL string `json:"instagram_url" binding:"omitempty,url,max=500" example:"https://instagram.com/nok"`
}

type RedeemPasscodeRequest struct {
	Passcode string `json:"passcode" binding:"required,len=6" example:"K7WQ2M"`
}

type PairResponse struct {
	Pair *Pair `json:"pair"`
}

// Register godoc
// @Summary      Register as a freshman
// @Description  At least one of facebook_url or instagram_url is required
// @Tags         freshmens
// @Accept       json
// @Produce      json
// @Param        request body RegisterFreshmanRequest true "Freshman details"
// @Success      201 {object} Freshman
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/rpc/freshmens.register [post]
func (h *FreshmanHandler) Register(c *gin.Context) {
	var req RegisterFreshmanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	freshman, err := h.participants.RegisterFreshman(c.Request.Context(), user.ID, services.FreshmanDetails{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Nickname:     req.Nickname,
		Branch:       req.Branch,
		Phone:        req.Phone,
		FacebookURL:  req.FacebookURL,
		InstagramURL: req.InstagramURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, freshman)
}

// RedeemPasscode godoc
// @Summary      Redeem a sophomore's passcode
// @Description  Costs 5 resin and earns 5 passcode points
// @Tags         freshmens
// @Accept       json
// @Produce      json
// @Param        request body RedeemPasscodeRequest true "Passcode"
// @Success      200 {object} services.RedeemResult
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /api/rpc/freshmens.redeemPasscode [post]
func (h *FreshmanHandler) RedeemPasscode(c *gin.Context) {
	freshman, ok := currentFreshman(c)
	if !ok {
		return
	}
	var req RedeemPasscodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	code := strings.ToUpper(strings.TrimSpace(req.Passcode))
	result, err := h.passcodes.RedeemCode(ctx, freshman.ID, code)
	if err != nil {
		respondError(c, err)
		return
	}

	if pair, _ := h.pairs.GetPairByFreshman(ctx, freshman.ID); pair != nil {
		h.hub.Broadcast(pair.ID, ws.WSMessage{Type: ws.TypePasscodeRedeemed, Data: result})
		h.hub.Broadcast(pair.ID, ws.WSMessage{Type: ws.TypeResinUpdated, Data: gin.H{"quota": result.ResinLeft}})
	}
	c.JSON(http.StatusOK, result)
}

// RevealHint godoc
// @Summary      Reveal the next hint of the paired sophomore
// @Tags         freshmens
// @Produce      json
// @Success      200 {object} services.RevealResult
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/rpc/freshmens.revealHint [post]
func (h *FreshmanHandler) RevealHint(c *gin.Context) {
	freshman, ok := currentFreshman(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	pair, err := h.pairs.GetPairByFreshman(ctx, freshman.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if pair == nil {
		respondError(c, services.ErrPairNotFound)
		return
	}

	result, err := h.hints.Reveal(ctx, pair.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.hub.Broadcast(pair.ID, ws.WSMessage{Type: ws.TypeHintRevealed, Data: result})
	c.JSON(http.StatusOK, result)
}

// GetMyPair godoc
// @Summary      The freshman's pair
// @Description  pair is null until the freshman is paired
// @Tags         freshmens
// @Produce      json
// @Success      200 {object} PairResponse
// @Router       /api/rpc/freshmens.getMyPair [get]
func (h *FreshmanHandler) GetMyPair(c *gin.Context) {
	freshman, ok := currentFreshman(c)
	if !ok {
		return
	}
	pair, err := h.pairs.GetPairByFreshman(c.Request.Context(), freshman.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PairResponse{Pair: pair})
}

// GetVerses godoc
// @Summary      The freshman's main page
// @Tags         freshmens
// @Produce      json
// @Success      200 {object} services.Verses
// @Failure      404 {object} ErrorResponse
// @Router       /api/rpc/freshmens.getVerses [get]
func (h *FreshmanHandler) GetVerses(c *gin.Context) {
	freshman, ok := currentFreshman(c)
	if !ok {
		return
	}
	verses, err := h.pairs.Verses(c.Request.Context(), freshman)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, verses)
}

// GetRevealedHints godoc
// @Summary      Hints revealed so far
// @Tags         freshmens
// @Produce      json
// @Success      200 {array} services.RevealedHintView
// @Failure      404 {object} ErrorResponse
// @Router       /api/rpc/freshmens.getRevealedHints [get]
func (h *FreshmanHandler) GetRevealedHints(c *gin.Context) {
	freshman, ok := currentFreshman(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	pair, err := h.pairs.GetPairByFreshman(ctx, freshman.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if pair == nil {
		respondError(c, services.ErrPairNotFound)
		return
	}
	hints, err := h.hints.GetRevealedHints(ctx, pair.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hints)
}
