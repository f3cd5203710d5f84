package handler

import (
	"net/http"
	"strconv"
	"time"

	"maeum/backend/internal/config"
	"maeum/backend/internal/database"
	"maeum/backend/internal/ledger"
	"maeum/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// region --- DTOs ---

// CreateProposalInput pairs two applicants by their user IDs.
type CreateProposalInput struct {
	ProposerID      uint   `json:"proposer_id" binding:"required" example:"1"`
	ProposedMatchID uint   `json:"proposed_match_id" binding:"required" example:"2"`
	AdminMessage    string `json:"admin_message" example:"You both love hiking and live in Seoul."`
}

// AdminProposalResponse is a proposal as the curation surface sees it,
// including both raw response fields.
type AdminProposalResponse struct {
	ID                    uuid.UUID             `json:"id"`
	ProposerID            uint                  `json:"proposer_id"`
	ProposedMatchID       uint                  `json:"proposed_match_id"`
	AdminID               uint                  `json:"admin_id"`
	AdminMessage          string                `json:"admin_message,omitempty"`
	ProposerResponse      models.PartyResponse  `json:"proposer_response"`
	ProposedMatchResponse models.PartyResponse  `json:"proposed_match_response"`
	Status                models.ProposalStatus `json:"status"`
	CreatedAt             time.Time             `json:"created_at"`
	ExpiresAt             time.Time             `json:"expires_at"`
}

// endregion

func buildAdminProposalResponse(p *models.MatchProposal, now time.Time) AdminProposalResponse {
	return AdminProposalResponse{
		ID:                    p.ID,
		ProposerID:            p.ProposerID,
		ProposedMatchID:       p.ProposedMatchID,
		AdminID:               p.AdminID,
		AdminMessage:          p.AdminMessage,
		ProposerResponse:      p.ProposerResponse,
		ProposedMatchResponse: p.ProposedMatchResponse,
		Status:                p.Aggregate(now),
		CreatedAt:             p.CreatedAt,
		ExpiresAt:             p.ExpiresAt,
	}
}

// ListSubmittedApplications godoc
// @Summary      List submitted applications
// @Description  Returns submitted applications for curation, newest first, paginated.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number" default(1)
// @Param        limit query     int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[models.Application]
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/applications [get]
func ListSubmittedApplications(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := database.DB.Model(&models.Application{}).
		Where("status = ?", models.ApplicationSubmitted).
		Order("created_at DESC")

	response, err := Paginate[models.Application](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}
	c.JSON(http.StatusOK, response)
}

// ListCandidates godoc
// @Summary      List candidate matches for an applicant
// @Description  Returns submitted applications of the opposite declared gender. A plain exclusion filter; pairing judgment stays with the administrator.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Applicant user ID"
// @Success      200  {array}   models.Application
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/applications/{id}/candidates [get]
func ListCandidates(c *gin.Context) {
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var target models.Application
	if err := database.DB.Where("user_id = ? AND status = ?", targetUserID, models.ApplicationSubmitted).First(&target).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submitted application not found"})
		return
	}

	var candidates []models.Application
	err = database.DB.
		Where("status = ?", models.ApplicationSubmitted).
		Where("user_id <> ?", target.UserID).
		Where("gender <> ?", target.Gender).
		Order("created_at DESC").
		Find(&candidates).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch candidates"})
		return
	}
	c.JSON(http.StatusOK, candidates)
}

// CreateProposal godoc
// @Summary      Create a match proposal
// @Description  Pairs two submitted applicants. Both parties start pending; the proposal expires after the configured window.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body CreateProposalInput true "Pairing"
// @Success      201  {object}  AdminProposalResponse
// @Failure      400  {object}  ErrorResponse "Self pairing, missing profile or incompatible pair"
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/proposals [post]
func CreateProposal(c *gin.Context) {
	adminID, _ := c.Get("userID")

	var input CreateProposalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	proposal, err := ledger.CreateProposal(c.Request.Context(), database.DB, adminID.(uint), input.ProposerID, input.ProposedMatchID, input.AdminMessage, config.AppConfig.ProposalTTL(), now)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildAdminProposalResponse(proposal, now))
}

// ListProposals godoc
// @Summary      List all match proposals
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number" default(1)
// @Param        limit query     int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[AdminProposalResponse]
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/proposals [get]
func ListProposals(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := database.DB.Model(&models.MatchProposal{}).Order("created_at DESC, id DESC")
	paginated, err := Paginate[models.MatchProposal](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch proposals"})
		return
	}

	now := time.Now()
	responses := make([]AdminProposalResponse, 0, len(paginated.Data))
	for i := range paginated.Data {
		responses = append(responses, buildAdminProposalResponse(&paginated.Data[i], now))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(responses, paginated.Meta.TotalItems, page, limit))
}

// RunExpirySweep godoc
// @Summary      Expire stale proposals
// @Description  Transitions every still-undecided proposal past its deadline to expired. Idempotent; also runs periodically in the background.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64 "{"expired": 3}"
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/proposals/sweep [post]
func RunExpirySweep(c *gin.Context) {
	expired, err := ledger.ExpireStale(c.Request.Context(), database.DB, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sweep failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": expired})
}

// GetRejectionBreakdown godoc
// @Summary      Rejection reason analytics
// @Description  Counts recorded rejection reasons per category.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/rejections/summary [get]
func GetRejectionBreakdown(c *gin.Context) {
	breakdown, err := ledger.RejectionBreakdown(c.Request.Context(), database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rejection summary"})
		return
	}
	c.JSON(http.StatusOK, breakdown)
}
