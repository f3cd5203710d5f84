package ledger_test

import (
	"context"
	"testing"
	"time"

	"maeum/backend/internal/ledger"
	"maeum/backend/internal/models"
	"maeum/backend/internal/testutil"

	"gorm.io/gorm"
)

// fixture is the minimum cast for proposal tests: an admin and two
// opposite-gender applicants with submitted applications.
type fixture struct {
	db    *gorm.DB
	admin *models.User
	jun   *models.User
	mina  *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.DB(t)
	f := &fixture{
		db:    db,
		admin: testutil.SeedUser(t, db, "admin", "admin"),
		jun:   testutil.SeedUser(t, db, "jun", "user"),
		mina:  testutil.SeedUser(t, db, "mina", "user"),
	}
	testutil.SeedApplication(t, db, f.jun.ID, "Jun", "male")
	testutil.SeedApplication(t, db, f.mina.ID, "Mina", "female")
	return f
}

func (f *fixture) propose(t *testing.T, ttl time.Duration, now time.Time) *models.MatchProposal {
	t.Helper()

	proposal, err := ledger.CreateProposal(context.Background(), f.db, f.admin.ID, f.jun.ID, f.mina.ID, "you both love hiking", ttl, now)
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	return proposal
}
