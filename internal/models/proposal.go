package models

import (
	"time"

	"github.com/google/uuid"
)

// PartyResponse defines one party's decision on a match proposal.
type PartyResponse string

const (
	// ResponsePending means the party has not decided yet.
	ResponsePending PartyResponse = "pending"

	// ResponseAccepted means the party accepted the proposed match.
	ResponseAccepted PartyResponse = "accepted"

	// ResponseRejected means the party rejected the proposed match.
	ResponseRejected PartyResponse = "rejected"
)

// ProposalStatus is the derived overall state of a match proposal. It is
// computed from the two per-party response fields and the deadline; it is
// never stored as an independently writable column, so concurrent responders
// cannot race on it.
type ProposalStatus string

const (
	// ProposalPending means the proposal is still waiting on at least one party.
	ProposalPending ProposalStatus = "pending"

	// ProposalMatched means both parties accepted. Unlocks contact exchange.
	ProposalMatched ProposalStatus = "matched"

	// ProposalRejected means at least one party rejected. Terminal.
	ProposalRejected ProposalStatus = "rejected"

	// ProposalExpired means the deadline passed while the proposal was still
	// undecided. Terminal.
	ProposalExpired ProposalStatus = "expired"
)

// FinalStatus is sweep bookkeeping on the proposal row. It exists so that
// expired and resolved proposals can be filtered with an indexed column; the
// aggregate state always comes from Aggregate, never from this field alone.
type FinalStatus string

const (
	FinalPending  FinalStatus = "pending"
	FinalResolved FinalStatus = "resolved"
	FinalExpired  FinalStatus = "expired"
)

// MatchProposal pairs two applicants. Created by an administrator; each named
// party may write only its own response field; terminal proposals are kept
// for history and never deleted.
type MatchProposal struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProposerID      uint      `gorm:"not null;index"`
	ProposedMatchID uint      `gorm:"not null;index"`
	AdminID         uint      `gorm:"not null"`
	AdminMessage    string

	ProposerResponse      PartyResponse `gorm:"type:varchar(20);not null;default:'pending'"`
	ProposedMatchResponse PartyResponse `gorm:"type:varchar(20);not null;default:'pending'"`

	FinalStatus FinalStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ExpiresAt   time.Time   `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Proposer      User `gorm:"foreignKey:ProposerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ProposedMatch User `gorm:"foreignKey:ProposedMatchID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// IsParty reports whether userID is one of the two named parties.
func (p *MatchProposal) IsParty(userID uint) bool {
	return userID == p.ProposerID || userID == p.ProposedMatchID
}

// ResponseOf returns the stored response for the given party.
func (p *MatchProposal) ResponseOf(userID uint) PartyResponse {
	if userID == p.ProposerID {
		return p.ProposerResponse
	}
	return p.ProposedMatchResponse
}

// CounterpartID returns the other party's user ID.
func (p *MatchProposal) CounterpartID(userID uint) uint {
	if userID == p.ProposerID {
		return p.ProposedMatchID
	}
	return p.ProposerID
}

// Aggregate derives the overall proposal state at time now:
//
//	pending  | pending  -> pending
//	accepted | pending  -> pending (waiting on the other party)
//	pending  | accepted -> pending (waiting on the other party)
//	accepted | accepted -> matched
//	rejected | *        -> rejected
//	*        | rejected -> rejected
//
// A proposal that is still undecided past its deadline is expired. Rejection
// and mutual acceptance settle the proposal regardless of the deadline, so a
// pair that matched before expiry stays matched.
func (p *MatchProposal) Aggregate(now time.Time) ProposalStatus {
	if p.ProposerResponse == ResponseRejected || p.ProposedMatchResponse == ResponseRejected {
		return ProposalRejected
	}
	if p.ProposerResponse == ResponseAccepted && p.ProposedMatchResponse == ResponseAccepted {
		return ProposalMatched
	}
	if p.FinalStatus == FinalExpired || !now.Before(p.ExpiresAt) {
		return ProposalExpired
	}
	return ProposalPending
}
