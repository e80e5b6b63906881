package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/classroom-service/internal/handler"
	"github.com/psds-microservice/classroom-service/pkg/constants"
)

// New builds the HTTP router.
func New(
	readiness *handler.ReadinessHandler,
	window *handler.SessionWindowHandler,
	stream *handler.StreamHandler,
	payment *handler.PaymentHandler,
	health *handler.HealthHandler,
	allowedOrigins []string,
) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	if mw := corsMiddleware(allowedOrigins); mw != nil {
		r.Use(mw)
	}

	r.GET(constants.PathHealth, health.Health)
	r.GET(constants.PathReady, health.Ready)

	// Classroom coordination
	r.GET(constants.PathReadiness, readiness.GetReadiness)
	r.POST(constants.PathReadiness, readiness.PostReadiness)
	r.GET(constants.PathSessionWindow, window.GetSessionWindow)
	r.POST(constants.PathSessionWindow, window.PostSessionWindow)
	r.GET(constants.PathStream, stream.ServeSSE)
	r.GET(constants.PathStreamWS, stream.ServeWS)

	// ECPay
	r.POST(constants.PathECPayCheckout, payment.Checkout)
	r.POST(constants.PathECPayCallback, payment.Callback)
	r.GET(constants.PathECPayOrder, payment.GetOrder)

	return r
}

// corsMiddleware returns nil when no origins are configured (same-origin deployment).
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}
