package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RGPankO/ZapArc-sub002/internal/handlers"
	"github.com/RGPankO/ZapArc-sub002/internal/interfaces"
	"github.com/RGPankO/ZapArc-sub002/internal/service"
	"github.com/RGPankO/ZapArc-sub002/internal/telemetry"
)

func NewRouter(engine *service.Engine, history interfaces.PaymentHistoryRepository) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "payment-engine"})
	})

	// Payment routes
	paymentHandler := handlers.NewPaymentHandler(engine, history)
	r.POST("/payments", paymentHandler.CreatePayment)
	r.GET("/payments", paymentHandler.ListPayments)
	r.GET("/payments/:id", paymentHandler.GetPayment)
	r.POST("/payments/:id/cancel", paymentHandler.CancelPayment)
	r.POST("/payments/:id/retry", paymentHandler.RetryPayment)

	// Archived terminal payments
	r.GET("/history", paymentHandler.ListHistory)

	return r
}
