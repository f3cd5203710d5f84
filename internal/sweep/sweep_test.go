package sweep_test

import (
	"context"
	"testing"
	"time"

	"maeum/backend/internal/ledger"
	"maeum/backend/internal/models"
	"maeum/backend/internal/sweep"
	"maeum/backend/internal/testutil"

	"gorm.io/gorm"
)

// staleProposal inserts an undecided proposal whose deadline already passed.
func staleProposal(t *testing.T, db *gorm.DB) *models.MatchProposal {
	t.Helper()

	admin := testutil.SeedUser(t, db, "admin", "admin")
	a := testutil.SeedUser(t, db, "a", "user")
	b := testutil.SeedUser(t, db, "b", "user")
	testutil.SeedApplication(t, db, a.ID, "A", "male")
	testutil.SeedApplication(t, db, b.ID, "B", "female")

	created := time.Now().Add(-80 * time.Hour)
	p, err := ledger.CreateProposal(context.Background(), db, admin.ID, a.ID, b.ID, "", 72*time.Hour, created)
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	return p
}

func TestRunExpiresStaleProposals(t *testing.T) {
	db := testutil.DB(t)
	p := staleProposal(t, db)

	s := sweep.New(db, time.Minute)
	expired, err := s.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}

	var current models.MatchProposal
	if err := db.Where("id = ?", p.ID).First(&current).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if current.FinalStatus != models.FinalExpired {
		t.Fatalf("final_status = %s, want expired", current.FinalStatus)
	}
}

func TestStartSweepsInBackground(t *testing.T) {
	db := testutil.DB(t)
	p := staleProposal(t, db)

	s := sweep.New(db, 10*time.Millisecond)
	s.Start()
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for {
		var current models.MatchProposal
		if err := db.Where("id = ?", p.ID).First(&current).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if current.FinalStatus == models.FinalExpired {
			return
		}
		select {
		case <-deadline:
			t.Fatal("background sweep never expired the proposal")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestStartStopAreIdempotent(t *testing.T) {
	db := testutil.DB(t)

	s := sweep.New(db, time.Minute)
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}
