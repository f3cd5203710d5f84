package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchResponse is the append-only audit row recording a single party's
// decision on a proposal. Rows are write-once: the proposal's own fields are
// overwritten by the second responder, these never are.
type MatchResponse struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey"`
	MatchProposalID uuid.UUID     `gorm:"type:uuid;not null;index"`
	UserID          uint          `gorm:"not null;index"`
	Response        PartyResponse `gorm:"type:varchar(20);not null"`
	RespondedAt     time.Time     `gorm:"not null"`

	MatchProposal MatchProposal `gorm:"foreignKey:MatchProposalID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
