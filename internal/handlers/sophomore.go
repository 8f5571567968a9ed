package handlers

import (
	"net/http"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/middleware"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

type SophomoreHandler struct {
	participants *services.ParticipantService
	hints        *services.HintService
	passcodes    *services.PasscodeService
	pairs        *services.PairService
}

func NewSophomoreHandler(participants *services.ParticipantService, hints *services.HintService, passcodes *services.PasscodeService, pairs *services.PairService) *SophomoreHandler {
	return &SophomoreHandler{
		participants: participants,
		hints:        hints,
		passcodes:    passcodes,
		pairs:        pairs,
	}
}

type HintItem struct {
	Slug    string `json:"slug" binding:"required,max=50" example:"hobby"`
	Content string `json:"content" binding:"required,max=500" example:"Plays the guitar"`
}

type SubmitHintsRequest struct {
	Hints []HintItem `json:"hints" binding:"required,min=1,max=10,dive"`
}

// Register godoc
// @Summary      Register as a sophomore
// @Description  Details are copied from the registry row of the student id
// @Tags         sophomores
// @Produce      json
// @Success      200 {object} Sophomore
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/rpc/sophomores.register [post]
func (h *SophomoreHandler) Register(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sophomore, err := h.participants.RegisterSophomoreFromRegistry(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sophomore)
}

// SubmitHints godoc
// @Summary      Submit hints
// @Description  Accepted once per sophomore
// @Tags         sophomores
// @Accept       json
// @Produce      json
// @Param        request body SubmitHintsRequest true "Hints"
// @Success      201 {array} SophomoreHint
// @Failure      400 {object} ErrorResponse
// @Router       /api/rpc/sophomores.submitHints [post]
func (h *SophomoreHandler) SubmitHints(c *gin.Context) {
	sophomore, ok := currentSophomore(c)
	if !ok {
		return
	}
	var req SubmitHintsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	input := make([]services.HintInput, 0, len(req.Hints))
	for _, item := range req.Hints {
		input = append(input, services.HintInput{Slug: item.Slug, Content: item.Content})
	}
	rows, err := h.hints.SubmitHints(c.Request.Context(), sophomore.ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rows)
}

// GetMyHints godoc
// @Summary      The sophomore's own hints
// @Tags         sophomores
// @Produce      json
// @Success      200 {array} SophomoreHint
// @Router       /api/rpc/sophomores.getMyHints [get]
func (h *SophomoreHandler) GetMyHints(c *gin.Context) {
	sophomore, ok := currentSophomore(c)
	if !ok {
		return
	}
	hints, err := h.hints.GetSophomoreHints(c.Request.Context(), sophomore.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hints)
}

// GetMyPasscode godoc
// @Summary      The sophomore's current passcode
// @Description  Issues a new passcode once the previous one is redeemed
// @Tags         sophomores
// @Produce      json
// @Success      200 {object} Passcode
// @Router       /api/rpc/sophomores.getMyPasscode [get]
func (h *SophomoreHandler) GetMyPasscode(c *gin.Context) {
	sophomore, ok := currentSophomore(c)
	if !ok {
		return
	}
	passcode, err := h.passcodes.GetOrCreate(c.Request.Context(), sophomore.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, passcode)
}

// GetMyPairs godoc
// @Summary      Pairs the sophomore belongs to
// @Tags         sophomores
// @Produce      json
// @Success      200 {array} Pair
// @Router       /api/rpc/sophomores.getMyPairs [get]
func (h *SophomoreHandler) GetMyPairs(c *gin.Context) {
	sophomore, ok := currentSophomore(c)
	if !ok {
		return
	}
	pairs, err := h.pairs.GetPairsBySophomore(c.Request.Context(), sophomore.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pairs)
}
