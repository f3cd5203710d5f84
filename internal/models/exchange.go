package models

import (
	"time"

	"github.com/google/uuid"
)

// ExchangeStatus defines the state of a contact exchange.
type ExchangeStatus string

const (
	// ExchangePending means at most one party has submitted contact info.
	ExchangePending ExchangeStatus = "pending"

	// ExchangeCompleted means both payloads are present and mutually visible.
	ExchangeCompleted ExchangeStatus = "completed"
)

// ContactExchange holds each party's submitted contact payload for a matched
// proposal. Created lazily on the first submission; a party may only ever
// read the counterpart payload once the status is completed.
type ContactExchange struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	MatchProposalID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ProposerContact      *string
	ProposedMatchContact *string
	ExchangeStatus       ExchangeStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	ExchangedAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time

	MatchProposal MatchProposal `gorm:"foreignKey:MatchProposalID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Complete reports whether both payloads are present.
func (e *ContactExchange) Complete() bool {
	return e.ProposerContact != nil && e.ProposedMatchContact != nil
}
