package handler

import (
	"net/http"
	"time"

	"maeum/backend/internal/config"
	"maeum/backend/internal/database"
	"maeum/backend/internal/ledger"
	"maeum/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreatePaymentInput optionally attaches the external checkout session
// reference created by the payment provider.
type CreatePaymentInput struct {
	SessionID *string `json:"session_id" example:"cs_test_a1b2c3"`
}

// SettlePaymentInput carries the provider's settlement callback data.
type SettlePaymentInput struct {
	PaymentIntentID *string `json:"payment_intent_id" example:"pi_a1b2c3"`
}

// CreateMatchPayment godoc
// @Summary      Open a payment for a matched proposal
// @Description  Creates a pending payment at the configured match price. Requires a mutually accepted proposal.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true   "Proposal ID"
// @Param        input body      CreatePaymentInput  false  "Checkout session"
// @Success      201   {object}  models.MatchPayment
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse "Not matched or already paid"
// @Router       /matches/{id}/payments [post]
func CreateMatchPayment(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	proposalID, ok := proposalIDParam(c)
	if !ok {
		return
	}

	var input CreatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := ledger.CreatePayment(c.Request.Context(), database.DB, proposalID, viewerID.(uint), config.AppConfig.MatchPriceKRW, input.SessionID, time.Now())
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// ListMatchPayments godoc
// @Summary      List own payments for a proposal
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Proposal ID"
// @Success      200  {array}   models.MatchPayment
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /matches/{id}/payments [get]
func ListMatchPayments(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	proposalID, ok := proposalIDParam(c)
	if !ok {
		return
	}

	payments, err := ledger.PaymentsForProposal(c.Request.Context(), database.DB, proposalID, viewerID.(uint))
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// CompletePayment godoc
// @Summary      Mark a payment completed
// @Description  Settles a pending payment as completed. Duplicate settlement calls are rejected.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true   "Payment ID"
// @Param        input body      SettlePaymentInput  false  "Settlement info"
// @Success      200   {object}  models.MatchPayment
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse "Already settled"
// @Router       /payments/{id}/complete [post]
func CompletePayment(c *gin.Context) {
	settlePayment(c, models.PaymentCompleted)
}

// FailPayment godoc
// @Summary      Mark a payment failed
// @Description  Settles a pending payment as failed, allowing the user to retry with a new payment.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true   "Payment ID"
// @Param        input body      SettlePaymentInput  false  "Settlement info"
// @Success      200   {object}  models.MatchPayment
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse "Already settled"
// @Router       /payments/{id}/fail [post]
func FailPayment(c *gin.Context) {
	settlePayment(c, models.PaymentFailed)
}

func settlePayment(c *gin.Context, status models.PaymentStatus) {
	viewerID, _ := c.Get("userID")
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var input SettlePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := ledger.SettlePayment(c.Request.Context(), database.DB, paymentID, viewerID.(uint), status, input.PaymentIntentID, time.Now())
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}
