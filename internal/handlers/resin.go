package handlers

import (
	"net/http"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/services"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/ws"

	"github.com/gin-gonic/gin"
)

type ResinHandler struct {
	resin *services.ResinService
	pairs *services.PairService
	hub   *ws.Hub
}

func NewResinHandler(resin *services.ResinService, pairs *services.PairService, hub *ws.Hub) *ResinHandler {
	return &ResinHandler{resin: resin, pairs: pairs, hub: hub}
}

type QuotaResponse struct {
	Quota int `json:"quota" example:"35"`
}

type CronResponse struct {
	Pools int `json:"pools" example:"120"`
}

// GetMyQuota godoc
// @Summary      Resin left across all pools
// @Tags         resin
// @Produce      json
// @Success      200 {object} QuotaResponse
// @Router       /api/rpc/resin.getMyQuota [get]
func (h *ResinHandler) GetMyQuota(c *gin.Context) {
	freshman, ok := currentFreshman(c)
	if !ok {
		return
	}
	total, err := h.resin.GetTotalQuota(c.Request.Context(), freshman.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, QuotaResponse{Quota: total})
}

// CreateTodayResinPool godoc
// @Summary      Claim today's resin
// @Description  Idempotent within a calendar day
// @Tags         resin
// @Produce      json
// @Success      200 {object} ResinPool
// @Router       /api/rpc/resin.createTodayResinPool [post]
func (h *ResinHandler) CreateTodayResinPool(c *gin.Context) {
	freshman, ok := currentFreshman(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	pool, err := h.resin.EnsureTodayPool(ctx, freshman.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	if pair, _ := h.pairs.GetPairByFreshman(ctx, freshman.ID); pair != nil {
		if total, err := h.resin.GetTotalQuota(ctx, freshman.ID); err == nil {
			h.hub.Broadcast(pair.ID, ws.WSMessage{Type: ws.TypeResinUpdated, Data: QuotaResponse{Quota: total}})
		}
	}
	c.JSON(http.StatusOK, pool)
}

// RunDaily godoc
// @Summary      Create today's resin pool for every freshman
// @Description  Triggered by the external scheduler
// @Tags         cron
// @Produce      json
// @Param        X-Admin-Key header string true "Admin key"
// @Success      200 {object} CronResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/cron/resin [get]
func (h *ResinHandler) RunDaily(c *gin.Context) {
	n, err := h.resin.CreateTodayPoolsForAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CronResponse{Pools: n})
}
