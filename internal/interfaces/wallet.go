package interfaces

import (
	"context"

	"github.com/RGPankO/ZapArc-sub002/internal/models"
)

// WalletSDK is the contract of the wallet collaborator that parses payment
// destinations and settles payments on the network. SettlePayment is a
// suspending call; implementations must honor ctx cancellation.
type WalletSDK interface {
	ParseDestination(ctx context.Context, raw string) (*models.DestinationDescriptor, error)
	IsConnected(ctx context.Context) bool
	Balance(ctx context.Context) (int64, error)
	SettlePayment(ctx context.Context, desc *models.DestinationDescriptor, amountSat int64, comment string) (*models.Settlement, error)
}
