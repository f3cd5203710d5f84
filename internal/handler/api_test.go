package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"maeum/backend/internal/auth"
	"maeum/backend/internal/config"
	"maeum/backend/internal/database"
	"maeum/backend/internal/handler"
	"maeum/backend/internal/models"
	"maeum/backend/internal/testutil"

	"github.com/gin-gonic/gin"
)

// setupRouter wires the full API surface against a fresh in-memory database.
// Handlers read the package-global database.DB, so tests swap it in directly.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{
		JWTSecret:         "test-secret",
		ProposalTTLHours:  72,
		MatchPriceKRW:     50000,
		SweepIntervalMins: 10,
	}
	database.DB = testutil.DB(t)

	router := gin.New()
	apiV1 := router.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	authRoutes.POST("/register", handler.RegisterUser)
	authRoutes.POST("/login", handler.LoginUser)

	userRoutes := apiV1.Group("/users")
	userRoutes.Use(auth.AuthMiddleware())
	userRoutes.GET("/me", handler.GetMe)

	applicationRoutes := apiV1.Group("/applications")
	applicationRoutes.Use(auth.AuthMiddleware())
	applicationRoutes.PUT("/me", handler.SaveApplication)
	applicationRoutes.GET("/me", handler.GetMyApplication)
	applicationRoutes.POST("/me/submit", handler.SubmitApplication)

	matchRoutes := apiV1.Group("/matches")
	matchRoutes.Use(auth.AuthMiddleware())
	matchRoutes.GET("", handler.ListMatches)
	matchRoutes.GET("/history", handler.ListMatchHistory)
	matchRoutes.GET("/:id", handler.GetMatch)
	matchRoutes.POST("/:id/respond", handler.RespondToMatch)
	matchRoutes.POST("/:id/rejection-reason", handler.SubmitRejectionReason)
	matchRoutes.POST("/:id/contact", handler.SubmitContact)
	matchRoutes.GET("/:id/contact", handler.GetContactView)
	matchRoutes.POST("/:id/payments", handler.CreateMatchPayment)
	matchRoutes.GET("/:id/payments", handler.ListMatchPayments)

	paymentRoutes := apiV1.Group("/payments")
	paymentRoutes.Use(auth.AuthMiddleware())
	paymentRoutes.POST("/:id/complete", handler.CompletePayment)
	paymentRoutes.POST("/:id/fail", handler.FailPayment)

	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
	adminRoutes.GET("/applications", handler.ListSubmittedApplications)
	adminRoutes.GET("/applications/:id/candidates", handler.ListCandidates)
	adminRoutes.POST("/proposals", handler.CreateProposal)
	adminRoutes.GET("/proposals", handler.ListProposals)
	adminRoutes.POST("/proposals/sweep", handler.RunExpirySweep)
	adminRoutes.GET("/rejections/summary", handler.GetRejectionBreakdown)

	return router
}

func performRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// registerUser registers an account via the API and returns its token.
func registerUser(t *testing.T, router *gin.Engine, nickname string) string {
	t.Helper()

	w := performRequest(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"nickname": nickname,
		"email":    nickname + "@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s = %d: %s", nickname, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	return resp.Token
}

// registerAdmin registers an account and promotes it to admin in the database.
func registerAdmin(t *testing.T, router *gin.Engine, nickname string) string {
	t.Helper()

	token := registerUser(t, router, nickname)
	if err := database.DB.Model(&models.User{}).Where("nickname = ?", nickname).Update("role", "admin").Error; err != nil {
		t.Fatalf("promote %s: %v", nickname, err)
	}
	return token
}

// submitApplication fills in and submits the questionnaire for a user.
func submitApplication(t *testing.T, router *gin.Engine, token, name, gender string) {
	t.Helper()

	w := performRequest(router, http.MethodPut, "/api/v1/applications/me", token, gin.H{
		"name":    name,
		"age":     31,
		"gender":  gender,
		"hobbies": []string{"hiking", "cooking"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("save application = %d: %s", w.Code, w.Body.String())
	}
	w = performRequest(router, http.MethodPost, "/api/v1/applications/me/submit", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit application = %d: %s", w.Code, w.Body.String())
	}
}

// userID looks up an account's id by nickname.
func userID(t *testing.T, nickname string) uint {
	t.Helper()

	var user models.User
	if err := database.DB.Where("nickname = ?", nickname).First(&user).Error; err != nil {
		t.Fatalf("load user %s: %v", nickname, err)
	}
	return user.ID
}

// createProposal pairs two users through the admin API and returns the
// proposal id.
func createProposal(t *testing.T, router *gin.Engine, adminToken string, proposerID, matchID uint) string {
	t.Helper()

	w := performRequest(router, http.MethodPost, "/api/v1/admin/proposals", adminToken, gin.H{
		"proposer_id":       proposerID,
		"proposed_match_id": matchID,
		"admin_message":     "You two should meet.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create proposal = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	decode(t, w, &resp)
	return resp.ID
}

func TestAuthIsRequired(t *testing.T) {
	router := setupRouter(t)

	for _, path := range []string{"/api/v1/matches", "/api/v1/users/me", "/api/v1/admin/proposals"} {
		w := performRequest(router, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s without token = %d, want 401", path, w.Code)
		}
	}

	w := performRequest(router, http.MethodGet, "/api/v1/matches", "not-a-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("malformed token = %d, want 401", w.Code)
	}
}

func TestAdminSurfaceIsGated(t *testing.T) {
	router := setupRouter(t)
	token := registerUser(t, router, "jun")

	w := performRequest(router, http.MethodPost, "/api/v1/admin/proposals", token, gin.H{
		"proposer_id": 1, "proposed_match_id": 2,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("admin route as plain user = %d, want 403", w.Code)
	}
}

func TestMatchingFlow(t *testing.T) {
	router := setupRouter(t)

	adminToken := registerAdmin(t, router, "curator")
	junToken := registerUser(t, router, "jun")
	minaToken := registerUser(t, router, "mina")
	submitApplication(t, router, junToken, "Jun", "male")
	submitApplication(t, router, minaToken, "Mina", "female")

	proposalID := createProposal(t, router, adminToken, userID(t, "jun"), userID(t, "mina"))

	// Both parties see the proposal, pending, with the counterpart's profile
	// but no contact details anywhere in the payload.
	var matches []struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		MyResponse  string `json:"my_response"`
		Counterpart *struct {
			Name string `json:"name"`
		} `json:"counterpart"`
	}
	w := performRequest(router, http.MethodGet, "/api/v1/matches", junToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list matches = %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &matches)
	if len(matches) != 1 || matches[0].ID != proposalID {
		t.Fatalf("matches = %+v", matches)
	}
	if matches[0].Status != "pending" || matches[0].MyResponse != "pending" {
		t.Fatalf("fresh proposal = %+v, want pending/pending", matches[0])
	}
	if matches[0].Counterpart == nil || matches[0].Counterpart.Name != "Mina" {
		t.Fatalf("counterpart = %+v", matches[0].Counterpart)
	}

	respondPath := fmt.Sprintf("/api/v1/matches/%s/respond", proposalID)

	// An outsider cannot even look at the proposal.
	outsiderToken := registerUser(t, router, "outsider")
	w = performRequest(router, http.MethodGet, "/api/v1/matches/"+proposalID, outsiderToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("outsider get = %d, want 403", w.Code)
	}

	// First accept keeps the proposal pending.
	w = performRequest(router, http.MethodPost, respondPath, junToken, gin.H{"decision": "accepted"})
	if w.Code != http.StatusOK {
		t.Fatalf("jun accept = %d: %s", w.Code, w.Body.String())
	}
	var single struct {
		Status     string `json:"status"`
		MyResponse string `json:"my_response"`
	}
	decode(t, w, &single)
	if single.Status != "pending" || single.MyResponse != "accepted" {
		t.Fatalf("after first accept = %+v", single)
	}

	// Responding twice is refused.
	w = performRequest(router, http.MethodPost, respondPath, junToken, gin.H{"decision": "rejected"})
	if w.Code != http.StatusConflict {
		t.Fatalf("double respond = %d, want 409", w.Code)
	}

	// Second accept resolves it to matched.
	w = performRequest(router, http.MethodPost, respondPath, minaToken, gin.H{"decision": "accepted"})
	if w.Code != http.StatusOK {
		t.Fatalf("mina accept = %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &single)
	if single.Status != "matched" {
		t.Fatalf("after both accept = %+v, want matched", single)
	}

	// Contact exchange: nothing is revealed until both sides submit.
	contactPath := fmt.Sprintf("/api/v1/matches/%s/contact", proposalID)
	w = performRequest(router, http.MethodPost, contactPath, junToken, gin.H{"contact": "010-1111-2222/jun@example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("jun contact = %d: %s", w.Code, w.Body.String())
	}

	var view struct {
		OwnSubmitted       bool    `json:"own_submitted"`
		ExchangeStatus     string  `json:"exchange_status"`
		CounterpartContact *string `json:"counterpart_contact"`
	}
	w = performRequest(router, http.MethodGet, contactPath, minaToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("mina view = %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &view)
	if view.ExchangeStatus != "pending" || view.CounterpartContact != nil {
		t.Fatalf("view before completing = %+v, want nothing revealed", view)
	}

	w = performRequest(router, http.MethodPost, contactPath, minaToken, gin.H{"contact": "010-3333-4444/mina@example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("mina contact = %d: %s", w.Code, w.Body.String())
	}
	w = performRequest(router, http.MethodGet, contactPath, junToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("jun view = %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &view)
	if view.ExchangeStatus != "completed" || view.CounterpartContact == nil || *view.CounterpartContact != "010-3333-4444/mina@example.com" {
		t.Fatalf("completed view = %+v", view)
	}

	// Payment: created at the configured price, settled once.
	paymentsPath := fmt.Sprintf("/api/v1/matches/%s/payments", proposalID)
	w = performRequest(router, http.MethodPost, paymentsPath, junToken, gin.H{"session_id": "cs_test_a1b2c3"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create payment = %d: %s", w.Code, w.Body.String())
	}
	var payment struct {
		ID     string `json:"id"`
		Amount int64  `json:"amount"`
		Status string `json:"payment_status"`
	}
	decode(t, w, &payment)
	if payment.Amount != 50000 || payment.Status != "pending" {
		t.Fatalf("payment = %+v", payment)
	}

	completePath := fmt.Sprintf("/api/v1/payments/%s/complete", payment.ID)
	w = performRequest(router, http.MethodPost, completePath, junToken, gin.H{"payment_intent_id": "pi_a1b2c3"})
	if w.Code != http.StatusOK {
		t.Fatalf("complete payment = %d: %s", w.Code, w.Body.String())
	}
	w = performRequest(router, http.MethodPost, completePath, junToken, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate settlement = %d, want 409", w.Code)
	}

	// The resolved proposal left the active list but stays in history.
	w = performRequest(router, http.MethodGet, "/api/v1/matches", junToken, nil)
	decode(t, w, &matches)
	if len(matches) != 0 {
		t.Fatalf("active after resolve = %d, want 0", len(matches))
	}
	w = performRequest(router, http.MethodGet, "/api/v1/matches/history", junToken, nil)
	decode(t, w, &matches)
	if len(matches) != 1 || matches[0].Status != "matched" {
		t.Fatalf("history = %+v", matches)
	}
}

func TestRejectionFlow(t *testing.T) {
	router := setupRouter(t)

	adminToken := registerAdmin(t, router, "curator")
	junToken := registerUser(t, router, "jun")
	minaToken := registerUser(t, router, "mina")
	submitApplication(t, router, junToken, "Jun", "male")
	submitApplication(t, router, minaToken, "Mina", "female")

	proposalID := createProposal(t, router, adminToken, userID(t, "jun"), userID(t, "mina"))

	w := performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/matches/%s/respond", proposalID), minaToken, gin.H{"decision": "rejected"})
	if w.Code != http.StatusOK {
		t.Fatalf("reject = %d: %s", w.Code, w.Body.String())
	}

	// The counterpart's response bounces off the resolved proposal.
	w = performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/matches/%s/respond", proposalID), junToken, gin.H{"decision": "accepted"})
	if w.Code != http.StatusConflict {
		t.Fatalf("accept after reject = %d, want 409", w.Code)
	}

	// Contact exchange never opens on a rejected proposal.
	w = performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/matches/%s/contact", proposalID), junToken, gin.H{"contact": "010-1111-2222"})
	if w.Code != http.StatusConflict {
		t.Fatalf("contact on rejected proposal = %d, want 409", w.Code)
	}

	reasonPath := fmt.Sprintf("/api/v1/matches/%s/rejection-reason", proposalID)
	w = performRequest(router, http.MethodPost, reasonPath, minaToken, gin.H{"category": "age"})
	if w.Code != http.StatusCreated {
		t.Fatalf("rejection reason = %d: %s", w.Code, w.Body.String())
	}
	// One elaboration per rejection.
	w = performRequest(router, http.MethodPost, reasonPath, minaToken, gin.H{"category": "location"})
	if w.Code != http.StatusConflict {
		t.Fatalf("second reason = %d, want 409", w.Code)
	}
	// The non-rejecting party has nothing to explain.
	w = performRequest(router, http.MethodPost, reasonPath, junToken, gin.H{"category": "age"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("reason by non-rejecting party = %d, want 400", w.Code)
	}

	var breakdown map[string]int64
	w = performRequest(router, http.MethodGet, "/api/v1/admin/rejections/summary", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("breakdown = %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &breakdown)
	if breakdown["age"] != 1 {
		t.Fatalf("breakdown = %v", breakdown)
	}
}

func TestExpiryFlow(t *testing.T) {
	router := setupRouter(t)

	adminToken := registerAdmin(t, router, "curator")
	junToken := registerUser(t, router, "jun")
	minaToken := registerUser(t, router, "mina")
	submitApplication(t, router, junToken, "Jun", "male")
	submitApplication(t, router, minaToken, "Mina", "female")

	proposalID := createProposal(t, router, adminToken, userID(t, "jun"), userID(t, "mina"))

	// Push the deadline into the past.
	if err := database.DB.Model(&models.MatchProposal{}).
		Where("id = ?", proposalID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	var sweep struct {
		Expired int64 `json:"expired"`
	}
	w := performRequest(router, http.MethodPost, "/api/v1/admin/proposals/sweep", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sweep = %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &sweep)
	if sweep.Expired != 1 {
		t.Fatalf("sweep expired %d, want 1", sweep.Expired)
	}

	// Late responses get 410.
	w = performRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/matches/%s/respond", proposalID), junToken, gin.H{"decision": "accepted"})
	if w.Code != http.StatusGone {
		t.Fatalf("respond after expiry = %d, want 410", w.Code)
	}

	// The expired proposal shows up only in history.
	var matches []struct {
		Status string `json:"status"`
	}
	w = performRequest(router, http.MethodGet, "/api/v1/matches", junToken, nil)
	decode(t, w, &matches)
	if len(matches) != 0 {
		t.Fatalf("active after expiry = %d, want 0", len(matches))
	}
	w = performRequest(router, http.MethodGet, "/api/v1/matches/history", junToken, nil)
	decode(t, w, &matches)
	if len(matches) != 1 || matches[0].Status != "expired" {
		t.Fatalf("history = %+v", matches)
	}
}

func TestAdminCuration(t *testing.T) {
	router := setupRouter(t)

	adminToken := registerAdmin(t, router, "curator")
	junToken := registerUser(t, router, "jun")
	minaToken := registerUser(t, router, "mina")
	haruToken := registerUser(t, router, "haru")
	submitApplication(t, router, junToken, "Jun", "male")
	submitApplication(t, router, minaToken, "Mina", "female")
	submitApplication(t, router, haruToken, "Haru", "male")

	var page struct {
		Data []struct {
			Name   string `json:"name"`
			Gender string `json:"gender"`
		} `json:"data"`
		Meta struct {
			TotalItems int64 `json:"total_items"`
		} `json:"meta"`
	}
	w := performRequest(router, http.MethodGet, "/api/v1/admin/applications", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list applications = %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &page)
	if page.Meta.TotalItems != 3 {
		t.Fatalf("submitted applications = %d, want 3", page.Meta.TotalItems)
	}

	// Candidates for jun: only the opposite declared gender remains.
	var candidates []struct {
		Name   string `json:"name"`
		Gender string `json:"gender"`
	}
	w = performRequest(router, http.MethodGet, fmt.Sprintf("/api/v1/admin/applications/%d/candidates", userID(t, "jun")), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("candidates = %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &candidates)
	if len(candidates) != 1 || candidates[0].Name != "Mina" {
		t.Fatalf("candidates = %+v", candidates)
	}

	// Pairing two users of the same declared gender is refused.
	w = performRequest(router, http.MethodPost, "/api/v1/admin/proposals", adminToken, gin.H{
		"proposer_id":       userID(t, "jun"),
		"proposed_match_id": userID(t, "haru"),
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("same-gender pairing = %d, want 400", w.Code)
	}

	createProposal(t, router, adminToken, userID(t, "jun"), userID(t, "mina"))

	var proposals struct {
		Data []struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	w = performRequest(router, http.MethodGet, "/api/v1/admin/proposals", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list proposals = %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &proposals)
	if len(proposals.Data) != 1 || proposals.Data[0].Status != "pending" {
		t.Fatalf("proposals = %+v", proposals.Data)
	}
}
