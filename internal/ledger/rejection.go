package ledger

import (
	"context"
	"errors"

	"maeum/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordRejectionReason stores the optional elaboration of a reject decision.
// At most one per (proposal, user); the caller must actually have rejected.
// Callers treat failures here as non-fatal: the reject decision on the
// proposal already stands.
func RecordRejectionReason(ctx context.Context, db *gorm.DB, proposalID uuid.UUID, userID uint, category models.RejectionCategory, reason string, comments *string) (*models.MatchRejection, error) {
	if !models.ValidRejectionCategory(category) {
		return nil, ErrInvalidCategory
	}
	if category == models.RejectionOther && reason == "" {
		return nil, ErrReasonRequired
	}
	if reason == "" {
		reason = string(category)
	}

	proposal, err := ProposalForParty(ctx, db, proposalID, userID)
	if err != nil {
		return nil, err
	}
	if proposal.ResponseOf(userID) != models.ResponseRejected {
		return nil, ErrNotRejected
	}

	var existing models.MatchRejection
	err = db.WithContext(ctx).
		Where("match_proposal_id = ? AND user_id = ?", proposalID, userID).
		First(&existing).Error
	if err == nil {
		return nil, ErrRejectionReasonExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rejection := models.MatchRejection{
		ID:                 uuid.New(),
		MatchProposalID:    proposalID,
		UserID:             userID,
		RejectionCategory:  category,
		RejectionReason:    reason,
		AdditionalComments: comments,
	}
	if err := db.WithContext(ctx).Create(&rejection).Error; err != nil {
		return nil, err
	}
	return &rejection, nil
}

// RejectionReasonFor returns the stored reason for a (proposal, user) pair,
// or nil when the user skipped the form.
func RejectionReasonFor(ctx context.Context, db *gorm.DB, proposalID uuid.UUID, userID uint) (*models.MatchRejection, error) {
	var rejection models.MatchRejection
	err := db.WithContext(ctx).
		Where("match_proposal_id = ? AND user_id = ?", proposalID, userID).
		First(&rejection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rejection, nil
}

// RejectionBreakdown counts recorded rejection reasons per category, for the
// admin analytics view.
func RejectionBreakdown(ctx context.Context, db *gorm.DB) (map[models.RejectionCategory]int64, error) {
	type row struct {
		RejectionCategory models.RejectionCategory
		Total             int64
	}
	var rows []row
	err := db.WithContext(ctx).Model(&models.MatchRejection{}).
		Select("rejection_category, count(*) as total").
		Group("rejection_category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	breakdown := make(map[models.RejectionCategory]int64, len(rows))
	for _, r := range rows {
		breakdown[r.RejectionCategory] = r.Total
	}
	return breakdown, nil
}
