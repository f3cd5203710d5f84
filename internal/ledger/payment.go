package ledger

import (
	"context"
	"errors"
	"time"

	"maeum/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatePayment opens a pending payment for a matched proposal. One open or
// completed payment per (proposal, user); the processor session reference is
// attached by the caller once the external session exists.
func CreatePayment(ctx context.Context, db *gorm.DB, proposalID uuid.UUID, userID uint, amount int64, sessionID *string, now time.Time) (*models.MatchPayment, error) {
	proposal, err := ProposalForParty(ctx, db, proposalID, userID)
	if err != nil {
		return nil, err
	}
	if proposal.Aggregate(now) != models.ProposalMatched {
		return nil, ErrNotMatched
	}

	var existing models.MatchPayment
	err = db.WithContext(ctx).
		Where("match_proposal_id = ? AND user_id = ?", proposalID, userID).
		Where("payment_status <> ?", models.PaymentFailed).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyPaid
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	payment := models.MatchPayment{
		ID:              uuid.New(),
		MatchProposalID: proposalID,
		UserID:          userID,
		Amount:          amount,
		PaymentStatus:   models.PaymentPending,
		StripeSessionID: sessionID,
	}
	if err := db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// SettlePayment moves the caller's pending payment to completed or failed.
// The update is conditional on the payment still being pending, so a
// duplicate settlement callback cannot re-settle it.
func SettlePayment(ctx context.Context, db *gorm.DB, paymentID uuid.UUID, userID uint, status models.PaymentStatus, intentID *string, now time.Time) (*models.MatchPayment, error) {
	if status != models.PaymentCompleted && status != models.PaymentFailed {
		return nil, ErrPaymentSettled
	}

	updates := map[string]interface{}{"payment_status": status}
	if status == models.PaymentCompleted {
		updates["paid_at"] = now
	}
	if intentID != nil {
		updates["stripe_payment_intent_id"] = *intentID
	}

	res := db.WithContext(ctx).Model(&models.MatchPayment{}).
		Where("id = ? AND user_id = ?", paymentID, userID).
		Where("payment_status = ?", models.PaymentPending).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var current models.MatchPayment
		err := db.WithContext(ctx).Where("id = ?", paymentID).First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		if err != nil {
			return nil, err
		}
		if current.UserID != userID {
			return nil, ErrNotAuthorized
		}
		return nil, ErrPaymentSettled
	}

	var payment models.MatchPayment
	if err := db.WithContext(ctx).Where("id = ?", paymentID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// PaymentsForProposal lists the caller's payments on a proposal.
func PaymentsForProposal(ctx context.Context, db *gorm.DB, proposalID uuid.UUID, userID uint) ([]models.MatchPayment, error) {
	if _, err := ProposalForParty(ctx, db, proposalID, userID); err != nil {
		return nil, err
	}
	var payments []models.MatchPayment
	err := db.WithContext(ctx).
		Where("match_proposal_id = ? AND user_id = ?", proposalID, userID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// HasCompletedPayment reports whether the user has paid for the proposal.
// Collaborators consult this before revealing final contact details.
func HasCompletedPayment(ctx context.Context, db *gorm.DB, proposalID uuid.UUID, userID uint) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.MatchPayment{}).
		Where("match_proposal_id = ? AND user_id = ? AND payment_status = ?", proposalID, userID, models.PaymentCompleted).
		Count(&count).Error
	return count > 0, err
}
