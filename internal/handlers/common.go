package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/middleware"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/models"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Code  string `json:"code" example:"BAD_REQUEST"`
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type User = models.User
type Freshman = models.Freshman
type Sophomore = models.Sophomore
type Pair = models.Pair
type Passcode = models.Passcode
type ResinPool = models.ResinPool
type HintSlug = models.HintSlug
type SophomoreHint = models.SophomoreHint

var kindStatus = map[services.ErrorKind]int{
	services.KindBadRequest:   http.StatusBadRequest,
	services.KindUnauthorized: http.StatusUnauthorized,
	services.KindNotFound:     http.StatusNotFound,
	services.KindConflict:     http.StatusConflict,
}

// respondError writes a business error with its status. Anything else is an
// internal failure: it is logged and hidden from the caller.
func respondError(c *gin.Context, err error) {
	var e *services.Error
	if errors.As(err, &e) {
		status, ok := kindStatus[e.Kind]
		if !ok {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Code: string(e.Kind), Error: e.Message})
		return
	}
	log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:  "INTERNAL_SERVER_ERROR",
		Error: "internal server error",
	})
}

// badRequest reports an input that failed binding validation.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:  string(services.KindBadRequest),
		Error: err.Error(),
	})
}

func currentFreshman(c *gin.Context) (*models.Freshman, bool) {
	user := middleware.CurrentUser(c)
	if user == nil || user.Freshman == nil {
		respondError(c, services.ErrUnauthorized)
		return nil, false
	}
	return user.Freshman, true
}

func currentSophomore(c *gin.Context) (*models.Sophomore, bool) {
	user := middleware.CurrentUser(c)
	if user == nil || user.Sophomore == nil {
		respondError(c, services.ErrUnauthorized)
		return nil, false
	}
	return user.Sophomore, true
}
