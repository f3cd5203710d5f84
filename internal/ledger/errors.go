// Package ledger owns the match-proposal lifecycle: proposal creation, the
// two parties' responses, expiry, contact exchange and payment gating. Every
// operation takes the caller's identity as an explicit parameter; nothing in
// here reads ambient session state.
package ledger

import "errors"

var (
	// ErrNotAuthorized means the caller is not a named party on the proposal
	// (or otherwise not allowed to perform the operation).
	ErrNotAuthorized = errors.New("ledger: caller is not a party to this proposal")

	// ErrProposalNotFound means no proposal exists with the given id.
	ErrProposalNotFound = errors.New("ledger: proposal not found")

	// ErrSelfMatch means a proposal would pair a user with themselves.
	ErrSelfMatch = errors.New("ledger: cannot propose a match with oneself")

	// ErrProfileNotEligible means a party has no submitted application.
	ErrProfileNotEligible = errors.New("ledger: party has no submitted application")

	// ErrIncompatibleMatch means the two applications fail the basic
	// compatibility filter (same declared gender).
	ErrIncompatibleMatch = errors.New("ledger: parties are not compatible")

	// ErrInvalidDecision means a response other than accepted or rejected.
	ErrInvalidDecision = errors.New("ledger: decision must be accepted or rejected")

	// ErrAlreadyResponded means the caller already recorded a decision on this
	// proposal; the first decision stands.
	ErrAlreadyResponded = errors.New("ledger: party has already responded")

	// ErrProposalResolved means the proposal reached a terminal state through
	// the other party and no further action is possible.
	ErrProposalResolved = errors.New("ledger: proposal is already resolved")

	// ErrProposalExpired means the proposal's deadline has passed.
	ErrProposalExpired = errors.New("ledger: proposal has expired")

	// ErrNotMatched means the operation requires a mutually accepted proposal.
	ErrNotMatched = errors.New("ledger: proposal is not matched")

	// ErrInvalidCategory means an unknown rejection category.
	ErrInvalidCategory = errors.New("ledger: unknown rejection category")

	// ErrReasonRequired means the "other" category needs an explicit reason.
	ErrReasonRequired = errors.New("ledger: rejection reason text required")

	// ErrRejectionReasonExists means a reason was already recorded for this
	// (proposal, user) pair.
	ErrRejectionReasonExists = errors.New("ledger: rejection reason already recorded")

	// ErrNotRejected means the caller tries to explain a rejection they never
	// made.
	ErrNotRejected = errors.New("ledger: party has not rejected this proposal")

	// ErrAlreadyPaid means an open or completed payment already exists for
	// this (proposal, user) pair.
	ErrAlreadyPaid = errors.New("ledger: payment already exists")

	// ErrPaymentNotFound means no payment exists with the given id.
	ErrPaymentNotFound = errors.New("ledger: payment not found")

	// ErrPaymentSettled means the payment is no longer pending.
	ErrPaymentSettled = errors.New("ledger: payment already settled")
)
