package ledger

import (
	"context"
	"errors"
	"time"

	"maeum/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContactView is what one party is allowed to see of a contact exchange. The
// counterpart payload is only ever populated from a completed exchange, so a
// partial submission cannot leak.
type ContactView struct {
	OwnSubmitted       bool                  `json:"own_submitted"`
	ExchangeStatus     models.ExchangeStatus `json:"exchange_status"`
	CounterpartContact *string               `json:"counterpart_contact,omitempty"`
	ExchangedAt        *time.Time            `json:"exchanged_at,omitempty"`
}

// SubmitContact upserts the caller's contact payload for a matched proposal.
// The record is created lazily on the first submission; once both payloads
// are present the exchange is marked completed. Each party only ever writes
// its own column, so concurrent first submissions collapse into one row via
// the unique proposal index.
func SubmitContact(ctx context.Context, db *gorm.DB, proposalID uuid.UUID, userID uint, payload string, now time.Time) (*models.ContactExchange, error) {
	proposal, err := ProposalForParty(ctx, db, proposalID, userID)
	if err != nil {
		return nil, err
	}
	if proposal.Aggregate(now) != models.ProposalMatched {
		return nil, ErrNotMatched
	}

	column := "proposer_contact"
	exchange := models.ContactExchange{
		ID:              uuid.New(),
		MatchProposalID: proposalID,
		ExchangeStatus:  models.ExchangePending,
	}
	if userID == proposal.ProposerID {
		exchange.ProposerContact = &payload
	} else {
		column = "proposed_match_contact"
		exchange.ProposedMatchContact = &payload
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "match_proposal_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{column: payload, "updated_at": now}),
		}).Create(&exchange).Error; err != nil {
			return err
		}

		// Completion is a conditional batch update: whichever submission makes
		// both columns non-null flips the status exactly once.
		if err := tx.Model(&models.ContactExchange{}).
			Where("match_proposal_id = ?", proposalID).
			Where("proposer_contact IS NOT NULL AND proposed_match_contact IS NOT NULL").
			Where("exchange_status = ?", models.ExchangePending).
			Updates(map[string]interface{}{
				"exchange_status": models.ExchangeCompleted,
				"exchanged_at":    now,
			}).Error; err != nil {
			return err
		}

		// Re-read into a fresh struct: on conflict the surviving row keeps the
		// first submitter's id, not the one generated above.
		exchange = models.ContactExchange{}
		return tx.Where("match_proposal_id = ?", proposalID).First(&exchange).Error
	})
	if err != nil {
		return nil, err
	}
	return &exchange, nil
}

// GetContactView returns the caller's view of the exchange for a proposal.
// The counterpart payload is withheld (nil) until the exchange is completed;
// there is no code path that copies it out of a pending record.
func GetContactView(ctx context.Context, db *gorm.DB, proposalID uuid.UUID, userID uint) (*ContactView, error) {
	proposal, err := ProposalForParty(ctx, db, proposalID, userID)
	if err != nil {
		return nil, err
	}

	var exchange models.ContactExchange
	err = db.WithContext(ctx).Where("match_proposal_id = ?", proposalID).First(&exchange).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &ContactView{ExchangeStatus: models.ExchangePending}, nil
	}
	if err != nil {
		return nil, err
	}

	view := ContactView{ExchangeStatus: exchange.ExchangeStatus}
	own, counterpart := exchange.ProposerContact, exchange.ProposedMatchContact
	if userID == proposal.ProposedMatchID {
		own, counterpart = counterpart, own
	}
	view.OwnSubmitted = own != nil
	if exchange.ExchangeStatus == models.ExchangeCompleted {
		view.CounterpartContact = counterpart
		view.ExchangedAt = exchange.ExchangedAt
	}
	return &view, nil
}
