package handler

import (
	"errors"
	"net/http"
	"time"

	"maeum/backend/internal/database"
	"maeum/backend/internal/ledger"
	"maeum/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// region --- DTOs ---

// CounterpartProfile is the slice of the other party's application shown
// alongside a proposal. Contact details never travel through here.
type CounterpartProfile struct {
	Name         string   `json:"name"`
	Age          int      `json:"age"`
	Location     string   `json:"location"`
	Occupation   string   `json:"occupation"`
	Education    string   `json:"education"`
	Religion     string   `json:"religion"`
	Hobbies      []string `json:"hobbies"`
	Introduction string   `json:"introduction"`
}

// ProposalResponse is a proposal as seen by one of its parties. Status is the
// derived aggregate, computed at read time.
type ProposalResponse struct {
	ID           uuid.UUID             `json:"id"`
	Status       models.ProposalStatus `json:"status"`
	MyResponse   models.PartyResponse  `json:"my_response"`
	AdminMessage string                `json:"admin_message,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	ExpiresAt    time.Time             `json:"expires_at"`
	Counterpart  *CounterpartProfile   `json:"counterpart,omitempty"`
}

// RespondInput carries a party's decision on a proposal.
type RespondInput struct {
	Decision models.PartyResponse `json:"decision" binding:"required" example:"accepted"`
}

// RejectionReasonInput carries the optional elaboration of a reject decision.
type RejectionReasonInput struct {
	Category           models.RejectionCategory `json:"category" binding:"required" example:"age"`
	Reason             string                   `json:"reason"`
	AdditionalComments *string                  `json:"additional_comments"`
}

// endregion

// respondLedgerError translates ledger sentinels into HTTP answers.
func respondLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrProposalNotFound), errors.Is(err, ledger.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrProposalExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrAlreadyResponded),
		errors.Is(err, ledger.ErrProposalResolved),
		errors.Is(err, ledger.ErrNotMatched),
		errors.Is(err, ledger.ErrAlreadyPaid),
		errors.Is(err, ledger.ErrPaymentSettled),
		errors.Is(err, ledger.ErrRejectionReasonExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrSelfMatch),
		errors.Is(err, ledger.ErrProfileNotEligible),
		errors.Is(err, ledger.ErrIncompatibleMatch),
		errors.Is(err, ledger.ErrInvalidDecision),
		errors.Is(err, ledger.ErrInvalidCategory),
		errors.Is(err, ledger.ErrReasonRequired),
		errors.Is(err, ledger.ErrNotRejected):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func proposalIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return uuid.Nil, false
	}
	return id, true
}

func buildProposalResponse(p *models.MatchProposal, viewerID uint, now time.Time) ProposalResponse {
	resp := ProposalResponse{
		ID:           p.ID,
		Status:       p.Aggregate(now),
		MyResponse:   p.ResponseOf(viewerID),
		AdminMessage: p.AdminMessage,
		CreatedAt:    p.CreatedAt,
		ExpiresAt:    p.ExpiresAt,
	}

	var app models.Application
	if err := database.DB.Where("user_id = ?", p.CounterpartID(viewerID)).First(&app).Error; err == nil {
		resp.Counterpart = &CounterpartProfile{
			Name:         app.Name,
			Age:          app.Age,
			Location:     app.Location,
			Occupation:   app.Occupation,
			Education:    app.Education,
			Religion:     app.Religion,
			Hobbies:      []string(app.Hobbies),
			Introduction: app.Introduction,
		}
	}
	return resp
}

// ListMatches godoc
// @Summary      List active match proposals
// @Description  Returns the caller's still-open proposals, most recent first.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ProposalResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /matches [get]
func ListMatches(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	now := time.Now()

	proposals, err := ledger.ListActiveProposalsForUser(c.Request.Context(), database.DB, viewerID.(uint), now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch proposals"})
		return
	}

	responses := make([]ProposalResponse, 0, len(proposals))
	for i := range proposals {
		responses = append(responses, buildProposalResponse(&proposals[i], viewerID.(uint), now))
	}
	c.JSON(http.StatusOK, responses)
}

// ListMatchHistory godoc
// @Summary      List match history
// @Description  Returns every proposal the caller was a party to, terminal states included.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ProposalResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /matches/history [get]
func ListMatchHistory(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	now := time.Now()

	proposals, err := ledger.ListProposalsForUser(c.Request.Context(), database.DB, viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch proposals"})
		return
	}

	responses := make([]ProposalResponse, 0, len(proposals))
	for i := range proposals {
		responses = append(responses, buildProposalResponse(&proposals[i], viewerID.(uint), now))
	}
	c.JSON(http.StatusOK, responses)
}

// GetMatch godoc
// @Summary      Get a match proposal
// @Description  Returns one proposal the caller is a party to.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Proposal ID"
// @Success      200  {object}  ProposalResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /matches/{id} [get]
func GetMatch(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	proposalID, ok := proposalIDParam(c)
	if !ok {
		return
	}

	proposal, err := ledger.ProposalForParty(c.Request.Context(), database.DB, proposalID, viewerID.(uint))
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildProposalResponse(proposal, viewerID.(uint), time.Now()))
}

// RespondToMatch godoc
// @Summary      Accept or reject a match proposal
// @Description  Records the caller's decision. A party may respond exactly once; a proposal already resolved or expired is not actionable.
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Proposal ID"
// @Param        input body      RespondInput  true  "Decision"
// @Success      200   {object}  ProposalResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse "Already responded or resolved"
// @Failure      410   {object}  ErrorResponse "Proposal expired"
// @Router       /matches/{id}/respond [post]
func RespondToMatch(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	proposalID, ok := proposalIDParam(c)
	if !ok {
		return
	}

	var input RespondInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposal, err := ledger.RecordResponse(c.Request.Context(), database.DB, proposalID, viewerID.(uint), input.Decision, time.Now())
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildProposalResponse(proposal, viewerID.(uint), time.Now()))
}

// SubmitRejectionReason godoc
// @Summary      Explain a rejection
// @Description  Optionally records why the caller rejected the match. Skipping this never affects the recorded decision.
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Proposal ID"
// @Param        input body      RejectionReasonInput  true  "Reason"
// @Success      201   {object}  models.MatchRejection
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse "Reason already recorded"
// @Router       /matches/{id}/rejection-reason [post]
func SubmitRejectionReason(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	proposalID, ok := proposalIDParam(c)
	if !ok {
		return
	}

	var input RejectionReasonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rejection, err := ledger.RecordRejectionReason(c.Request.Context(), database.DB, proposalID, viewerID.(uint), input.Category, input.Reason, input.AdditionalComments)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rejection)
}
