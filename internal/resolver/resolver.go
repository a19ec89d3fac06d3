package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RGPankO/ZapArc-sub002/internal/interfaces"
	"github.com/RGPankO/ZapArc-sub002/internal/models"
)

var (
	ErrResolution        = errors.New("destination resolution failed")
	ErrAmountTooSmall    = errors.New("amount below destination minimum")
	ErrAmountTooLarge    = errors.New("amount above destination maximum")
	ErrLimitsUnavailable = errors.New("destination limits unavailable")
)

const payRequestTag = "payRequest"

// Resolver turns a raw destination string into a DestinationDescriptor via
// the wallet SDK's parser. It has no side effects and caches nothing: the
// destination's limits can change between payment attempts.
type Resolver struct {
	wallet interfaces.WalletSDK
}

func NewResolver(wallet interfaces.WalletSDK) *Resolver {
	return &Resolver{wallet: wallet}
}

// Normalize rewrites Lightning-address inputs (name@host) into the
// LNURL-pay endpoint form the SDK parser expects. Other inputs pass
// through trimmed, with a leading lightning: scheme stripped.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "lightning:")

	if name, host, ok := strings.Cut(s, "@"); ok && name != "" && host != "" && !strings.Contains(s, "/") {
		return fmt.Sprintf("https://%s/.well-known/lnurlp/%s", host, name)
	}
	return s
}

func (r *Resolver) Resolve(ctx context.Context, raw string) (*models.DestinationDescriptor, error) {
	normalized := Normalize(raw)
	if normalized == "" {
		return nil, fmt.Errorf("%w: empty destination", ErrResolution)
	}

	desc, err := r.wallet.ParseDestination(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolution, err)
	}
	if desc == nil {
		return nil, fmt.Errorf("%w: parser returned no descriptor", ErrResolution)
	}
	if desc.Tag != payRequestTag {
		return nil, fmt.Errorf("%w: destination is not payable (tag %q)", ErrResolution, desc.Tag)
	}
	if desc.Callback == "" {
		return nil, fmt.Errorf("%w: descriptor has no callback", ErrResolution)
	}
	return desc, nil
}

// ValidateAmount checks a requested amount in satoshis against the
// descriptor's millisatoshi bounds. Pure and deterministic.
func ValidateAmount(amountSat int64, desc *models.DestinationDescriptor) error {
	if desc.MinSendable == 0 && desc.MaxSendable == 0 {
		return ErrLimitsUnavailable
	}
	amountMsat := amountSat * 1000
	if amountMsat < desc.MinSendable {
		return fmt.Errorf("%w: %d sat is below the minimum of %d sat",
			ErrAmountTooSmall, amountSat, (desc.MinSendable+999)/1000)
	}
	if desc.MaxSendable > 0 && amountMsat > desc.MaxSendable {
		return fmt.Errorf("%w: %d sat is above the maximum of %d sat",
			ErrAmountTooLarge, amountSat, desc.MaxSendable/1000)
	}
	return nil
}
