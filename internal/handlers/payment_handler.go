package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RGPankO/ZapArc-sub002/internal/interfaces"
	"github.com/RGPankO/ZapArc-sub002/internal/models"
	"github.com/RGPankO/ZapArc-sub002/internal/service"
	"github.com/RGPankO/ZapArc-sub002/internal/telemetry"
)

type PaymentHandler struct {
	engine  *service.Engine
	history interfaces.PaymentHistoryRepository
}

func NewPaymentHandler(engine *service.Engine, history interfaces.PaymentHistoryRepository) *PaymentHandler {
	return &PaymentHandler{engine: engine, history: history}
}

type createPaymentRequest struct {
	Destination      string `json:"destination" binding:"required"`
	AmountSat        int64  `json:"amount_sat" binding:"required"`
	Comment          string `json:"comment"`
	UseBuiltinWallet *bool  `json:"use_builtin_wallet"`
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		telemetry.Logger.Error("Error decoding payment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	useBuiltin := true
	if req.UseBuiltinWallet != nil {
		useBuiltin = *req.UseBuiltinWallet
	}

	id, err := h.engine.CreatePayment(&models.PaymentIntent{
		Destination:      req.Destination,
		AmountSat:        req.AmountSat,
		Comment:          req.Comment,
		UseBuiltinWallet: useBuiltin,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"payment_id": id})
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	rec, ok := h.engine.GetStatus(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"payments": h.engine.ListActive()})
}

func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	id := c.Param("id")
	if !h.engine.Cancel(id) {
		c.JSON(http.StatusConflict, gin.H{"error": "payment cannot be cancelled", "payment_id": id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled", "payment_id": id})
}

func (h *PaymentHandler) RetryPayment(c *gin.Context) {
	id := c.Param("id")
	res := h.engine.Retry(c.Request.Context(), id)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"payment_id": id, "result": res})
}

func (h *PaymentHandler) ListHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history disabled"})
		return
	}

	records, err := h.history.ListRecent(c.Request.Context(), 100)
	if err != nil {
		telemetry.Logger.Error("Error listing payment history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch payment history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": records})
}
