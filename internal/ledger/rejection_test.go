package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"maeum/backend/internal/ledger"
	"maeum/backend/internal/models"
)

// rejectedProposal drives a fresh proposal to rejected by mina.
func rejectedProposal(t *testing.T, f *fixture) *models.MatchProposal {
	t.Helper()

	p := f.propose(t, ttl, base)
	if _, err := ledger.RecordResponse(context.Background(), f.db, p.ID, f.mina.ID, models.ResponseRejected, base.Add(time.Hour)); err != nil {
		t.Fatalf("reject: %v", err)
	}
	return p
}

func TestRecordRejectionReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := rejectedProposal(t, f)

	rejection, err := ledger.RecordRejectionReason(ctx, f.db, p.ID, f.mina.ID, models.RejectionAge, "", nil)
	if err != nil {
		t.Fatalf("record reason: %v", err)
	}
	if rejection.RejectionCategory != models.RejectionAge {
		t.Fatalf("category = %s, want age", rejection.RejectionCategory)
	}
	// A blank reason defaults to the category name.
	if rejection.RejectionReason != "age" {
		t.Fatalf("reason = %q, want %q", rejection.RejectionReason, "age")
	}
	if rejection.AdditionalComments != nil {
		t.Fatal("comments must stay nil when not given")
	}

	stored, err := ledger.RejectionReasonFor(ctx, f.db, p.ID, f.mina.ID)
	if err != nil {
		t.Fatalf("load reason: %v", err)
	}
	if stored == nil || stored.ID != rejection.ID {
		t.Fatalf("stored reason = %+v", stored)
	}
}

func TestRejectionReasonIsOptional(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := rejectedProposal(t, f)

	// Skipping the form entirely is fine; the reject decision already stands.
	stored, err := ledger.RejectionReasonFor(ctx, f.db, p.ID, f.mina.ID)
	if err != nil {
		t.Fatalf("load reason: %v", err)
	}
	if stored != nil {
		t.Fatalf("stored reason = %+v, want none", stored)
	}

	var current models.MatchProposal
	if err := f.db.Where("id = ?", p.ID).First(&current).Error; err != nil {
		t.Fatalf("reload proposal: %v", err)
	}
	if got := current.Aggregate(base.Add(2 * time.Hour)); got != models.ProposalRejected {
		t.Fatalf("proposal without reason = %s, want rejected", got)
	}
}

func TestRecordRejectionReasonGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := rejectedProposal(t, f)

	if _, err := ledger.RecordRejectionReason(ctx, f.db, p.ID, f.mina.ID, "astrology", "", nil); !errors.Is(err, ledger.ErrInvalidCategory) {
		t.Fatalf("unknown category = %v, want ErrInvalidCategory", err)
	}
	if _, err := ledger.RecordRejectionReason(ctx, f.db, p.ID, f.mina.ID, models.RejectionOther, "", nil); !errors.Is(err, ledger.ErrReasonRequired) {
		t.Fatalf("other without reason = %v, want ErrReasonRequired", err)
	}
	// jun never rejected, so he has nothing to explain.
	if _, err := ledger.RecordRejectionReason(ctx, f.db, p.ID, f.jun.ID, models.RejectionAge, "", nil); !errors.Is(err, ledger.ErrNotRejected) {
		t.Fatalf("reason by non-rejecting party = %v, want ErrNotRejected", err)
	}

	if _, err := ledger.RecordRejectionReason(ctx, f.db, p.ID, f.mina.ID, models.RejectionLifestyle, "", nil); err != nil {
		t.Fatalf("record reason: %v", err)
	}
	if _, err := ledger.RecordRejectionReason(ctx, f.db, p.ID, f.mina.ID, models.RejectionLocation, "", nil); !errors.Is(err, ledger.ErrRejectionReasonExists) {
		t.Fatalf("second reason = %v, want ErrRejectionReasonExists", err)
	}
}

func TestRejectionBreakdown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := rejectedProposal(t, f)
	second := rejectedProposal(t, f)
	third := rejectedProposal(t, f)

	comments := "too far away"
	if _, err := ledger.RecordRejectionReason(ctx, f.db, first.ID, f.mina.ID, models.RejectionLocation, "", &comments); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := ledger.RecordRejectionReason(ctx, f.db, second.ID, f.mina.ID, models.RejectionLocation, "", nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := ledger.RecordRejectionReason(ctx, f.db, third.ID, f.mina.ID, models.RejectionOther, "timing is wrong", nil); err != nil {
		t.Fatalf("record: %v", err)
	}

	breakdown, err := ledger.RejectionBreakdown(ctx, f.db)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if breakdown[models.RejectionLocation] != 2 || breakdown[models.RejectionOther] != 1 {
		t.Fatalf("breakdown = %v", breakdown)
	}
}
