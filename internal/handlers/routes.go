package handlers

import (
	"github.com/DrowningToast/sairahut-it20-sub000/internal/cohort"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/middleware"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/ratelimit"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/services"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/ws"

	"github.com/gin-gonic/gin"
)

// Deps is everything the routes need.
type Deps struct {
	Auth         *services.AuthService
	Participants *services.ParticipantService
	Resin        *services.ResinService
	Passcodes    *services.PasscodeService
	Hints        *services.HintService
	Pairs        *services.PairService
	Hub          *ws.Hub
	Limiter      ratelimit.Limiter

	EmailDomain    string
	DepartmentCode string
	SecureCookie   bool
	IdentityAPIKey string
	AdminKeyHash   string
}

// Register mounts the procedure routes, the scheduled job and the pair
// socket on r.
func Register(r *gin.Engine, d Deps) {
	authHandler := NewAuthHandler(d.Auth, d.Participants, d.EmailDomain, d.DepartmentCode, d.SecureCookie)
	profileHandler := NewProfileHandler()
	freshmanHandler := NewFreshmanHandler(d.Participants, d.Passcodes, d.Hints, d.Pairs, d.Hub)
	sophomoreHandler := NewSophomoreHandler(d.Participants, d.Hints, d.Passcodes, d.Pairs)
	resinHandler := NewResinHandler(d.Resin, d.Pairs, d.Hub)
	hintHandler := NewHintHandler(d.Hints)
	pairHandler := NewPairHandler(d.Pairs)
	wsHandler := NewWSHandler(d.Hub, d.Pairs)

	limiter := d.Limiter
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}

	session := middleware.Session(d.Auth, d.Participants)
	authed := middleware.RequireAuthenticated()
	ready := middleware.RequireReady()
	freshman := middleware.RequireCohort(cohort.IsFreshman)
	sophomore := middleware.RequireCohort(cohort.IsSophomoreOrOlder)
	admin := middleware.AdminAuth(d.AdminKeyHash)

	r.GET("/ws/pair/:id", session, ready, wsHandler.HandleWebSocket)
	r.GET("/api/cron/resin", admin, resinHandler.RunDaily)

	rpc := r.Group("/api/rpc")
	rpc.Use(session)
	{
		rpc.POST("/auth.signIn", middleware.IdentityAuth(d.IdentityAPIKey), authHandler.SignIn)
		rpc.POST("/auth.signOut", authHandler.SignOut)

		rpc.GET("/profile.getMe", authed, profileHandler.GetMe)
		rpc.GET("/profile.getOnboarding", authed, profileHandler.GetOnboarding)
		rpc.GET("/profile.getFactions", profileHandler.GetFactions)

		rpc.POST("/freshmens.register", authed, freshman, freshmanHandler.Register)
		rpc.POST("/freshmens.redeemPasscode", ready, freshman, middleware.RateLimit(limiter, "redeem"), freshmanHandler.RedeemPasscode)
		rpc.POST("/freshmens.revealHint", ready, freshman, freshmanHandler.RevealHint)
		rpc.GET("/freshmens.getMyPair", ready, freshman, freshmanHandler.GetMyPair)
		rpc.GET("/freshmens.getVerses", ready, freshman, freshmanHandler.GetVerses)
		rpc.GET("/freshmens.getRevealedHints", ready, freshman, freshmanHandler.GetRevealedHints)

		rpc.POST("/sophomores.register", authed, sophomore, sophomoreHandler.Register)
		rpc.POST("/sophomores.submitHints", ready, sophomore, sophomoreHandler.SubmitHints)
		rpc.GET("/sophomores.getMyHints", ready, sophomore, sophomoreHandler.GetMyHints)
		rpc.GET("/sophomores.getMyPasscode", ready, sophomore, sophomoreHandler.GetMyPasscode)
		rpc.GET("/sophomores.getMyPairs", ready, sophomore, sophomoreHandler.GetMyPairs)

		rpc.GET("/resin.getMyQuota", ready, freshman, resinHandler.GetMyQuota)
		rpc.POST("/resin.createTodayResinPool", ready, freshman, resinHandler.CreateTodayResinPool)

		rpc.GET("/hints.getPrices", authed, hintHandler.GetPrices)
		rpc.GET("/hints.getSlugs", authed, hintHandler.GetSlugs)

		rpc.POST("/pairs.assign", admin, pairHandler.Assign)
	}
}
