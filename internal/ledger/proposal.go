package ledger

import (
	"context"
	"errors"
	"time"

	"maeum/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateProposal inserts a new match proposal between two applicants. Both
// must have submitted applications of opposite declared gender; this is a
// plain exclusion filter, not a score. Multiple open proposals per user are
// allowed, so no other proposal is touched.
func CreateProposal(ctx context.Context, db *gorm.DB, adminID, proposerID, proposedMatchID uint, message string, ttl time.Duration, now time.Time) (*models.MatchProposal, error) {
	if proposerID == proposedMatchID {
		return nil, ErrSelfMatch
	}

	proposerApp, err := submittedApplication(ctx, db, proposerID)
	if err != nil {
		return nil, err
	}
	matchApp, err := submittedApplication(ctx, db, proposedMatchID)
	if err != nil {
		return nil, err
	}
	if proposerApp.Gender == matchApp.Gender {
		return nil, ErrIncompatibleMatch
	}

	proposal := models.MatchProposal{
		ID:                    uuid.New(),
		ProposerID:            proposerID,
		ProposedMatchID:       proposedMatchID,
		AdminID:               adminID,
		AdminMessage:          message,
		ProposerResponse:      models.ResponsePending,
		ProposedMatchResponse: models.ResponsePending,
		FinalStatus:           models.FinalPending,
		ExpiresAt:             now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(&proposal).Error; err != nil {
		return nil, err
	}
	return &proposal, nil
}

func submittedApplication(ctx context.Context, db *gorm.DB, userID uint) (*models.Application, error) {
	var app models.Application
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotEligible
	}
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationSubmitted {
		return nil, ErrProfileNotEligible
	}
	return &app, nil
}

// ProposalForParty loads a proposal and verifies the caller is one of its two
// named parties.
func ProposalForParty(ctx context.Context, db *gorm.DB, proposalID uuid.UUID, userID uint) (*models.MatchProposal, error) {
	var proposal models.MatchProposal
	err := db.WithContext(ctx).Where("id = ?", proposalID).First(&proposal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProposalNotFound
	}
	if err != nil {
		return nil, err
	}
	if !proposal.IsParty(userID) {
		return nil, ErrNotAuthorized
	}
	return &proposal, nil
}

// RecordResponse records one party's accept/reject decision. The write is a
// single conditional UPDATE on the caller's own response column, guarded by
// "still pending, not expired, not already resolved", so two parties
// responding at the same instant (or racing the expiry sweep) can never lose
// an update: the aggregate state stays a read-time projection of the two
// columns. An immutable MatchResponse audit row is appended in the same
// transaction.
func RecordResponse(ctx context.Context, db *gorm.DB, proposalID uuid.UUID, userID uint, decision models.PartyResponse, now time.Time) (*models.MatchProposal, error) {
	if decision != models.ResponseAccepted && decision != models.ResponseRejected {
		return nil, ErrInvalidDecision
	}

	proposal, err := ProposalForParty(ctx, db, proposalID, userID)
	if err != nil {
		return nil, err
	}
	if err := responseBlocker(proposal, userID, now); err != nil {
		return nil, err
	}

	column := "proposer_response"
	if userID == proposal.ProposedMatchID {
		column = "proposed_match_response"
	}

	var updated models.MatchProposal
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.MatchProposal{}).
			Where("id = ?", proposalID).
			Where(column+" = ?", models.ResponsePending).
			Where("proposer_response <> ? AND proposed_match_response <> ?", models.ResponseRejected, models.ResponseRejected).
			Where("final_status = ?", models.FinalPending).
			Where("expires_at > ?", now).
			Update(column, decision)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost a race since the precondition check; re-read to say why.
			var current models.MatchProposal
			if err := tx.Where("id = ?", proposalID).First(&current).Error; err != nil {
				return err
			}
			if err := responseBlocker(&current, userID, now); err != nil {
				return err
			}
			return ErrProposalResolved
		}

		audit := models.MatchResponse{
			ID:              uuid.New(),
			MatchProposalID: proposalID,
			UserID:          userID,
			Response:        decision,
			RespondedAt:     now,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		if err := tx.Where("id = ?", proposalID).First(&updated).Error; err != nil {
			return err
		}
		// Bookkeeping only: the aggregate is always derived from the two
		// response columns, final_status just keeps resolved rows out of the
		// active-list index.
		switch updated.Aggregate(now) {
		case models.ProposalMatched, models.ProposalRejected:
			if err := tx.Model(&models.MatchProposal{}).
				Where("id = ? AND final_status = ?", proposalID, models.FinalPending).
				Update("final_status", models.FinalResolved).Error; err != nil {
				return err
			}
			updated.FinalStatus = models.FinalResolved
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// responseBlocker reports why a party may not act on the proposal, or nil if
// it is still actionable for them.
func responseBlocker(p *models.MatchProposal, userID uint, now time.Time) error {
	switch p.Aggregate(now) {
	case models.ProposalExpired:
		return ErrProposalExpired
	case models.ProposalMatched, models.ProposalRejected:
		if p.ResponseOf(userID) != models.ResponsePending {
			return ErrAlreadyResponded
		}
		return ErrProposalResolved
	}
	if p.ResponseOf(userID) != models.ResponsePending {
		return ErrAlreadyResponded
	}
	return nil
}

// ListActiveProposalsForUser returns the caller's still-open proposals, most
// recent first (id as a stable tie-break). The result is a finite snapshot.
func ListActiveProposalsForUser(ctx context.Context, db *gorm.DB, userID uint, now time.Time) ([]models.MatchProposal, error) {
	var rows []models.MatchProposal
	err := db.WithContext(ctx).
		Where("proposer_id = ? OR proposed_match_id = ?", userID, userID).
		Where("final_status = ?", models.FinalPending).
		Where("expires_at > ?", now).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	// final_status is only an index; re-derive in case a resolving write has
	// not flipped it yet.
	active := rows[:0]
	for _, p := range rows {
		if p.Aggregate(now) == models.ProposalPending {
			active = append(active, p)
		}
	}
	return active, nil
}

// ListProposalsForUser returns every proposal the user is a party to,
// terminal ones included, most recent first.
func ListProposalsForUser(ctx context.Context, db *gorm.DB, userID uint) ([]models.MatchProposal, error) {
	var rows []models.MatchProposal
	err := db.WithContext(ctx).
		Where("proposer_id = ? OR proposed_match_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

// ExpireStale transitions every still-undecided proposal past its deadline to
// the expired terminal state. The whole sweep is two idempotent batch
// UPDATEs; running it twice changes nothing further. Its predicates are
// disjoint from RecordResponse's (final_status / expires_at), so a response
// landing in the same instant is rejected by one side's guard rather than
// silently accepted after expiry.
func ExpireStale(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Model(&models.MatchProposal{}).
		Where("final_status = ?", models.FinalPending).
		Where("expires_at <= ?", now).
		Where("proposer_response <> ? AND proposed_match_response <> ?", models.ResponseRejected, models.ResponseRejected).
		Where("NOT (proposer_response = ? AND proposed_match_response = ?)", models.ResponseAccepted, models.ResponseAccepted).
		Update("final_status", models.FinalExpired)
	if res.Error != nil {
		return 0, res.Error
	}

	// Repair pass: rows resolved by responses whose best-effort final_status
	// write was lost keep their derived state; this just fixes the index.
	err := db.WithContext(ctx).Model(&models.MatchProposal{}).
		Where("final_status = ?", models.FinalPending).
		Where("proposer_response = ? OR proposed_match_response = ? OR (proposer_response = ? AND proposed_match_response = ?)",
			models.ResponseRejected, models.ResponseRejected, models.ResponseAccepted, models.ResponseAccepted).
		Update("final_status", models.FinalResolved).Error
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}
