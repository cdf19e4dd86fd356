package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dealflow/deal"
	"dealflow/scoring"
)

func testRun(id string, score int) *RunRecord {
	return &RunRecord{
		RunID:     id,
		Timestamp: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		RawText:   "deal text",
		StructuredDeal: deal.Record{
			PropertyType: deal.String(deal.TypeMultifamily),
			Location:     &deal.Location{City: deal.String("Austin")},
		},
		ScoreData: scoring.Result{Score: score, Verdict: scoring.VerdictFor(score)},
		BuyBox:    scoring.DefaultBuyBox(),
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	run := testRun("abc12345", 85)
	path, err := store.SaveRun(run)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if path != store.RunPath("abc12345") {
		t.Fatalf("path = %q", path)
	}
	if run.LocalPath != path {
		t.Fatalf("local path not set on record: %q", run.LocalPath)
	}

	loaded, err := store.LoadRun("abc12345")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.RunID != "abc12345" || loaded.ScoreData.Score != 85 {
		t.Fatalf("loaded = %+v", loaded)
	}
	if loaded.StructuredDeal.Location.CityName() != "Austin" {
		t.Fatalf("city = %q", loaded.StructuredDeal.Location.CityName())
	}
}

func TestSaveRunRewriteIsIdempotent(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	run := testRun("dupid", 70)
	if _, err := store.SaveRun(run); err != nil {
		t.Fatalf("save: %v", err)
	}
	run.RemoteURI = "s3://bucket/cre-deals/dupid.json"
	if _, err := store.SaveRun(run); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	runs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("rewrite must not duplicate, got %d runs", len(runs))
	}
	if runs[0].RemoteURI != "s3://bucket/cre-deals/dupid.json" {
		t.Fatalf("remote uri = %q", runs[0].RemoteURI)
	}
}

func TestListRunsSkipsNonRunFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := store.SaveRun(testRun("good1", 60)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, EvidenceLogName), []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	runs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "good1" {
		t.Fatalf("runs = %+v", runs)
	}
}

func TestListRunsLexicalOrder(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, id := range []string{"cc", "aa", "bb"} {
		if _, err := store.SaveRun(testRun(id, 50)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"aa", "bb", "cc"}
	for i, id := range want {
		if runs[i].RunID != id {
			t.Fatalf("order = %v at %d, want %v", runs[i].RunID, i, want)
		}
	}
}
