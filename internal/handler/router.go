package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snapbill/snapbill/internal/auth"
	"github.com/snapbill/snapbill/internal/middleware"
	"github.com/snapbill/snapbill/internal/service"
)

// NewRouter wires every handler into a gin engine. Health and metrics
// endpoints and the auth routes are open; everything under /api requires
// a valid token.
func NewRouter(
	receipts *service.ReceiptService,
	people *service.PeopleService,
	authSvc *service.AuthService,
	jwtManager *auth.JWTManager,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ah := NewAuthHandler(authSvc)
	r.POST("/api/auth/register", ah.Register)
	r.POST("/api/auth/login", ah.Login)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(jwtManager))

	rh := NewReceiptHandler(receipts)
	api.POST("/receipts/parse", rh.ParseText)
	api.POST("/receipts/parse-image", rh.ParseImage)
	api.GET("/receipts", rh.List)
	api.GET("/receipts/:id", rh.Get)
	api.PUT("/receipts/:id", rh.Update)
	api.DELETE("/receipts/:id", rh.Delete)
	api.GET("/receipts/:id/split", rh.Split)
	api.POST("/receipts/:id/items/:itemID/assign/:personID", rh.Assign)
	api.DELETE("/receipts/:id/items/:itemID/assign/:personID", rh.Unassign)

	ph := NewPeopleHandler(people)
	api.POST("/people", ph.Add)
	api.GET("/people", ph.List)
	api.DELETE("/people/:id", ph.Remove)

	return r
}
