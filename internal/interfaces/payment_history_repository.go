package interfaces

import (
	"context"

	"github.com/RGPankO/ZapArc-sub002/internal/models"
)

// PaymentHistoryRepository defines the contract for the durable payment
// history archive. Records are written once, when a payment reaches a
// terminal state.
type PaymentHistoryRepository interface {
	Archive(ctx context.Context, rec *models.PaymentRecord) error
	GetByID(ctx context.Context, id string) (*models.PaymentRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*models.PaymentRecord, error)
}
