package models

import (
	"time"

	"github.com/google/uuid"
)

// RejectionCategory is the closed set of reasons a party may give when
// rejecting a match.
type RejectionCategory string

const (
	RejectionAge         RejectionCategory = "age"
	RejectionOccupation  RejectionCategory = "occupation"
	RejectionEducation   RejectionCategory = "education"
	RejectionLocation    RejectionCategory = "location"
	RejectionPersonality RejectionCategory = "personality"
	RejectionHobbies     RejectionCategory = "hobbies"
	RejectionAppearance  RejectionCategory = "appearance"
	RejectionFamily      RejectionCategory = "family"
	RejectionReligion    RejectionCategory = "religion"
	RejectionLifestyle   RejectionCategory = "lifestyle"
	RejectionOther       RejectionCategory = "other"
)

// ValidRejectionCategory reports whether c is one of the known categories.
func ValidRejectionCategory(c RejectionCategory) bool {
	switch c {
	case RejectionAge, RejectionOccupation, RejectionEducation,
		RejectionLocation, RejectionPersonality, RejectionHobbies,
		RejectionAppearance, RejectionFamily, RejectionReligion,
		RejectionLifestyle, RejectionOther:
		return true
	}
	return false
}

// MatchRejection is an optional elaboration of a reject decision: at most one
// per (proposal, user), created only when the rejecting party chooses to
// supply a reason. Saving it is best-effort; the reject decision itself lives
// on the proposal and stands regardless.
type MatchRejection struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	MatchProposalID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_rejection_proposal_user" json:"match_proposal_id"`
	UserID             uint              `gorm:"not null;uniqueIndex:idx_rejection_proposal_user" json:"user_id"`
	RejectionCategory  RejectionCategory `gorm:"type:varchar(30);not null" json:"rejection_category"`
	RejectionReason    string            `json:"rejection_reason"`
	AdditionalComments *string           `json:"additional_comments,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`

	MatchProposal MatchProposal `gorm:"foreignKey:MatchProposalID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
