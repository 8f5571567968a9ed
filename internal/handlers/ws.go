package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/middleware"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/models"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/services"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub   *ws.Hub
	pairs *services.PairService
}

func NewWSHandler(hub *ws.Hub, pairs *services.PairService) *WSHandler {
	return &WSHandler{hub: hub, pairs: pairs}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func memberOf(user *models.User, pair *models.Pair) bool {
	if user.Freshman != nil && user.Freshman.ID == pair.FreshmanID {
		return true
	}
	return user.Sophomore != nil && user.Sophomore.ID == pair.SophomoreID
}

// HandleWebSocket godoc
// @Summary      WebSocket connection for pair updates
// @Description  Members of the pair receive resin_updated, passcode_redeemed and hint_revealed messages
// @Tags         websocket
// @Param        id path int true "Pair ID"
// @Router       /ws/pair/{id} [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	pairID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	pair, err := h.pairs.GetPair(c.Request.Context(), uint(pairID))
	if err != nil {
		respondError(c, err)
		return
	}
	if !memberOf(middleware.CurrentUser(c), pair) {
		respondError(c, services.ErrUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	pid := pair.ID
	h.hub.AddConnection(pid, conn)
	defer h.hub.RemoveConnection(pid, conn)

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
