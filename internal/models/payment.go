package models

import "time"

type PaymentStatus string

const (
	StatusPending    PaymentStatus = "pending"
	StatusProcessing PaymentStatus = "processing"
	StatusCompleted  PaymentStatus = "completed"
	StatusFailed     PaymentStatus = "failed"
	StatusCancelled  PaymentStatus = "cancelled"
)

// Terminal reports whether no further automatic transition can occur.
func (s PaymentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// PaymentIntent is the immutable input to the engine. Amounts are in
// satoshis; the comment is optional and bounded.
type PaymentIntent struct {
	Destination      string `json:"destination"`
	AmountSat        int64  `json:"amount_sat"`
	Comment          string `json:"comment,omitempty"`
	UseBuiltinWallet bool   `json:"use_builtin_wallet"`
}

// PaymentRecord is the live state of one tracked payment. Records are owned
// by the registry; nothing mutates them outside its entry points.
type PaymentRecord struct {
	ID          string        `json:"id"`
	Status      PaymentStatus `json:"status"`
	AmountSat   int64         `json:"amount_sat"`
	Destination string        `json:"destination"`
	Comment     string        `json:"comment,omitempty"`
	Error       string        `json:"error,omitempty"`
	RetryCount  int           `json:"retry_count"`
	MaxRetries  int           `json:"max_retries"`
	CreatedAt   time.Time     `json:"created_at"`
	LastRetryAt *time.Time    `json:"last_retry_at,omitempty"`
}

// DestinationDescriptor is the resolved metadata of a payable endpoint.
// Sendable bounds are in millisatoshis, as LNURL-pay publishes them.
type DestinationDescriptor struct {
	Callback    string `json:"callback"`
	MinSendable int64  `json:"min_sendable"`
	MaxSendable int64  `json:"max_sendable"`
	Metadata    string `json:"metadata,omitempty"`
	Tag         string `json:"tag"`
}

// SuccessAction is an optional payload the destination returns on settlement.
type SuccessAction struct {
	Tag         string `json:"tag"`
	Message     string `json:"message,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Settlement is what the wallet SDK reports for a confirmed payment.
type Settlement struct {
	TxID          string         `json:"tx_id"`
	PaymentHash   string         `json:"payment_hash"`
	Preimage      string         `json:"preimage"`
	AmountSat     int64          `json:"amount_sat"`
	FeeSat        int64          `json:"fee_sat"`
	SuccessAction *SuccessAction `json:"success_action,omitempty"`
}

// PaymentResult is the immutable outcome of a payment or of a single
// attempt. Retryable on a failure tells the caller whether another attempt
// could plausibly succeed.
type PaymentResult struct {
	Success       bool           `json:"success"`
	TxID          string         `json:"tx_id,omitempty"`
	PaymentHash   string         `json:"payment_hash,omitempty"`
	Preimage      string         `json:"preimage,omitempty"`
	AmountSat     int64          `json:"amount_sat,omitempty"`
	FeeSat        int64          `json:"fee_sat,omitempty"`
	SuccessAction *SuccessAction `json:"success_action,omitempty"`
	Err           string         `json:"error,omitempty"`
	Retryable     bool           `json:"retryable"`
}

// FailureResult builds a failed PaymentResult.
func FailureResult(msg string, retryable bool) PaymentResult {
	return PaymentResult{Err: msg, Retryable: retryable}
}

// SettlementResult builds a successful PaymentResult from an SDK settlement.
func SettlementResult(s *Settlement) PaymentResult {
	return PaymentResult{
		Success:       true,
		TxID:          s.TxID,
		PaymentHash:   s.PaymentHash,
		Preimage:      s.Preimage,
		AmountSat:     s.AmountSat,
		FeeSat:        s.FeeSat,
		SuccessAction: s.SuccessAction,
	}
}
