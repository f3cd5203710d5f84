package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus defines the state of a match payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// MatchPayment tracks one user's payment for a matched proposal. The payment
// processor is external; only its session/intent references are stored here.
// A completed payment is the flag consulted before final contact details are
// revealed to the paying user.
type MatchPayment struct {
	ID                    uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	MatchProposalID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"match_proposal_id"`
	UserID                uint          `gorm:"not null;index" json:"user_id"`
	Amount                int64         `gorm:"not null" json:"amount"`
	PaymentStatus         PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	StripeSessionID       *string       `gorm:"size:255" json:"stripe_session_id,omitempty"`
	StripePaymentIntentID *string       `gorm:"size:255" json:"stripe_payment_intent_id,omitempty"`
	PaidAt                *time.Time    `json:"paid_at,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`

	MatchProposal MatchProposal `gorm:"foreignKey:MatchProposalID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
