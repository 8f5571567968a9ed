package handlers

import (
	"net/http"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

type HintHandler struct {
	hints *services.HintService
}

func NewHintHandler(hints *services.HintService) *HintHandler {
	return &HintHandler{hints: hints}
}

type PricesResponse struct {
	Prices []int `json:"prices" example:"0,10,10,15,15,15,20,20,25,30"`
}

// GetPrices godoc
// @Summary      Reveal price per hint index
// @Tags         hints
// @Produce      json
// @Success      200 {object} PricesResponse
// @Router       /api/rpc/hints.getPrices [get]
func (h *HintHandler) GetPrices(c *gin.Context) {
	c.JSON(http.StatusOK, PricesResponse{Prices: services.HintPrices[:]})
}

// GetSlugs godoc
// @Summary      Hint catalog in reveal order
// @Tags         hints
// @Produce      json
// @Success      200 {array} HintSlug
// @Router       /api/rpc/hints.getSlugs [get]
func (h *HintHandler) GetSlugs(c *gin.Context) {
	slugs, err := h.hints.Slugs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slugs)
}
