package handler

import (
	"net/http"
	"time"

	"maeum/backend/internal/database"
	"maeum/backend/internal/ledger"
	"maeum/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ContactInput carries one party's contact payload: a free-form composite of
// phone / email / messenger handle.
type ContactInput struct {
	Contact string `json:"contact" binding:"required" example:"phone: 010-1234-5678, email: me@example.com, kakao: myid"`
}

// ContactExchangeResponse reports the caller's own exchange progress.
type ContactExchangeResponse struct {
	ExchangeStatus models.ExchangeStatus `json:"exchange_status"`
	OwnSubmitted   bool                  `json:"own_submitted"`
}

// SubmitContact godoc
// @Summary      Submit contact info
// @Description  Stores the caller's contact payload for a mutually accepted match. The counterpart's payload stays hidden until both sides have submitted.
// @Tags         exchange
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Proposal ID"
// @Param        input body      ContactInput  true  "Contact payload"
// @Success      200   {object}  ContactExchangeResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse "Proposal not matched"
// @Router       /matches/{id}/contact [post]
func SubmitContact(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	proposalID, ok := proposalIDParam(c)
	if !ok {
		return
	}

	var input ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exchange, err := ledger.SubmitContact(c.Request.Context(), database.DB, proposalID, viewerID.(uint), input.Contact, time.Now())
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, ContactExchangeResponse{
		ExchangeStatus: exchange.ExchangeStatus,
		OwnSubmitted:   true,
	})
}

// GetContactView godoc
// @Summary      View exchanged contact info
// @Description  Returns the counterpart's contact payload once both parties have submitted; until then the payload is withheld.
// @Tags         exchange
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Proposal ID"
// @Success      200  {object}  ledger.ContactView
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /matches/{id}/contact [get]
func GetContactView(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	proposalID, ok := proposalIDParam(c)
	if !ok {
		return
	}

	view, err := ledger.GetContactView(c.Request.Context(), database.DB, proposalID, viewerID.(uint))
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
