package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/cfarm/internal/model"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	if _, err := j.Record(model.ActionRecord{Kind: model.ActionTap, Reward: 0.01, OK: true, CreatedAt: base}); err != nil {
		t.Fatalf("Record tap: %v", err)
	}
	rec, err := j.Record(model.ActionRecord{
		Kind: model.ActionContribute, ProjectID: "7", Amount: 10, OK: false,
		Message: "Insufficient funds", CreatedAt: base.Add(time.Second),
	})
	if err != nil {
		t.Fatalf("Record contribute: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("Record did not assign an id")
	}

	got, err := j.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent returned %d rows, want 2", len(got))
	}
	if got[0].Kind != model.ActionContribute || got[0].ProjectID != "7" || got[0].Message != "Insufficient funds" || got[0].OK {
		t.Fatalf("newest = %+v", got[0])
	}
	if !got[0].CreatedAt.Equal(base.Add(time.Second)) {
		t.Fatalf("created_at = %v", got[0].CreatedAt)
	}
	if got[1].Kind != model.ActionTap || !got[1].OK {
		t.Fatalf("oldest = %+v", got[1])
	}
}

func TestRecordRequiresKind(t *testing.T) {
	j := openTestJournal(t)
	if _, err := j.Record(model.ActionRecord{}); err == nil {
		t.Fatal("expected error for missing kind")
	}
}

func TestTotalsCountsOnlySuccesses(t *testing.T) {
	j := openTestJournal(t)
	recs := []model.ActionRecord{
		{Kind: model.ActionTap, Reward: 0.01, OK: true},
		{Kind: model.ActionTap, Reward: 0.02, OK: true},
		{Kind: model.ActionTap, OK: false},
		{Kind: model.ActionContribute, ProjectID: "1", Amount: 5, OK: true},
		{Kind: model.ActionContribute, ProjectID: "1", Amount: 50, OK: false},
		{Kind: model.ActionAFK, Reward: 2.5, OK: true},
		{Kind: model.ActionUpgrade, ProjectID: "3", OK: true},
		{Kind: model.ActionUpgrade, ProjectID: "3", OK: false, Message: "Not enough funds"},
	}
	for _, r := range recs {
		if _, err := j.Record(r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	tot, err := j.Totals()
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if tot.Taps != 2 || tot.Contributions != 1 || tot.Contributed != 5 || tot.AFKEarnings != 2.5 || tot.Upgrades != 1 {
		t.Fatalf("totals = %+v", tot)
	}
	if tot.Rewards < 0.0299 || tot.Rewards > 0.0301 {
		t.Fatalf("rewards = %v", tot.Rewards)
	}
}

func TestEmptyTotals(t *testing.T) {
	j := openTestJournal(t)
	tot, err := j.Totals()
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if tot != (Totals{}) {
		t.Fatalf("totals = %+v, want zero", tot)
	}
}
