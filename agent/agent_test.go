package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dealflow/crm"
	"dealflow/extract"
	"dealflow/metrics"
	"dealflow/scoring"
	"dealflow/storage"
)

func newTestAgent(t *testing.T, opts Options) (*Agent, *storage.Store) {
	t.Helper()
	store, err := storage.NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	extractor := extract.NewGenerative(nil, nil)
	return New(store, extractor, nil, opts), store
}

const narrative = "148-unit multifamily in Austin, Texas. Asking $18.5M, NOI of $1.2M, 6.5% cap."

func TestRunEndToEnd(t *testing.T) {
	stats := metrics.New()
	ag, store := newTestAgent(t, Options{Stats: stats})

	run, err := ag.Run(context.Background(), narrative, scoring.DefaultBuyBox())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(run.RunID) != 8 {
		t.Fatalf("run id = %q", run.RunID)
	}
	if run.ScoreData.Score != 100 || run.ScoreData.Verdict != scoring.VerdictPass {
		t.Fatalf("score = %d %q; reasons %v", run.ScoreData.Score, run.ScoreData.Verdict, run.ScoreData.Reasons)
	}
	if run.StructuredDeal.Units == nil || *run.StructuredDeal.Units != 148 {
		t.Fatalf("units = %v", run.StructuredDeal.Units)
	}
	if run.NarrativeSummary == "" {
		t.Fatal("narrative summary missing")
	}
	if !run.Flags.GenerativeFallback || !run.Flags.NarrativeFallback {
		t.Fatalf("fallback flags = %+v", run.Flags)
	}
	if run.Flags.UsedGenerative {
		t.Fatal("no backend configured, used_generative must be false")
	}

	loaded, err := store.LoadRun(run.RunID)
	if err != nil {
		t.Fatalf("load persisted run: %v", err)
	}
	if loaded.RawText != narrative {
		t.Fatalf("raw text = %q", loaded.RawText)
	}

	snap := stats.Snapshot()
	if snap.RunsStarted != 1 || snap.RunsCompleted != 1 || snap.RunsFailed != 0 {
		t.Fatalf("stats = %+v", snap)
	}
	if snap.GenerativeFallbacks != 1 || snap.NarrativeFallbacks != 1 {
		t.Fatalf("fallback stats = %+v", snap)
	}
}

func TestRunRejectsEmptyInput(t *testing.T) {
	ag, store := newTestAgent(t, Options{})

	for _, input := range []string{"", "   ", "\n\t"} {
		if _, err := ag.Run(context.Background(), input, scoring.DefaultBuyBox()); !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("input %q: err = %v, want ErrEmptyInput", input, err)
		}
	}

	runs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Fatal("rejected input must not persist anything")
	}
}

type fakeRemote struct {
	err  error
	keys []string
}

func (r *fakeRemote) Put(ctx context.Context, key string, body []byte) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.keys = append(r.keys, key)
	return "s3://deals/" + key, nil
}

func TestRunReplicatesRemote(t *testing.T) {
	remote := &fakeRemote{}
	ag, store := newTestAgent(t, Options{Remote: remote})

	run, err := ag.Run(context.Background(), narrative, scoring.DefaultBuyBox())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	wantKey := "cre-deals/" + run.RunID + ".json"
	if len(remote.keys) != 1 || remote.keys[0] != wantKey {
		t.Fatalf("remote keys = %v", remote.keys)
	}
	if run.RemoteURI != "s3://deals/"+wantKey {
		t.Fatalf("remote uri = %q", run.RemoteURI)
	}

	loaded, err := store.LoadRun(run.RunID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.RemoteURI != run.RemoteURI {
		t.Fatal("remote uri must be re-persisted locally")
	}
	if !loaded.Flags.HasRemote {
		t.Fatal("has_remote flag should be set")
	}
}

func TestRunSurvivesRemoteFailure(t *testing.T) {
	stats := metrics.New()
	ag, _ := newTestAgent(t, Options{
		Remote: &fakeRemote{err: errors.New("bucket down")},
		Stats:  stats,
	})

	run, err := ag.Run(context.Background(), narrative, scoring.DefaultBuyBox())
	if err != nil {
		t.Fatalf("remote failure must not fail the run: %v", err)
	}
	if run.RemoteURI != "" {
		t.Fatalf("remote uri = %q", run.RemoteURI)
	}
	if stats.Snapshot().RemoteFailures != 1 {
		t.Fatalf("stats = %+v", stats.Snapshot())
	}
}

func TestAttachCRM(t *testing.T) {
	ag, store := newTestAgent(t, Options{})

	text := narrative + " Call Marcus from JLL, marcus.thompson at jll.com."
	run, err := ag.Run(context.Background(), text, scoring.DefaultBuyBox())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	records := ag.AttachCRM(context.Background(), run, crm.NewDemoClient(nil))

	if !strings.HasPrefix(records.ContactID, "contact_demo_") {
		t.Fatalf("contact id = %q", records.ContactID)
	}
	if !strings.HasPrefix(records.NoteID, "note_demo_") || !strings.HasPrefix(records.TaskID, "task_demo_") {
		t.Fatalf("records = %+v", records)
	}

	loaded, err := store.LoadRun(run.RunID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.CRMRecords == nil || loaded.CRMRecords.ContactID != records.ContactID {
		t.Fatal("crm records must be re-persisted with the run")
	}
}
