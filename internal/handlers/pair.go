package handlers

import (
	"net/http"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

type PairHandler struct {
	pairs *services.PairService
}

func NewPairHandler(pairs *services.PairService) *PairHandler {
	return &PairHandler{pairs: pairs}
}

type AssignPairRequest struct {
	FreshmanID  uint `json:"freshman_id" binding:"required" example:"12"`
	SophomoreID uint `json:"sophomore_id" binding:"required" example:"4"`
}

// Assign godoc
// @Summary      Pair a freshman with a sophomore
// @Tags         pairs
// @Accept       json
// @Produce      json
// @Param        X-Admin-Key header string true "Admin key"
// @Param        request body AssignPairRequest true "Members"
// @Success      201 {object} Pair
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/rpc/pairs.assign [post]
func (h *PairHandler) Assign(c *gin.Context) {
	var req AssignPairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	pair, err := h.pairs.Assign(c.Request.Context(), req.FreshmanID, req.SophomoreID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pair)
}
