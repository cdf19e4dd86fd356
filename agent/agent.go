// Package agent orchestrates one end-to-end deal analysis: dual
// extraction, merge, scoring, narrative, and persistence.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dealflow/crm"
	"dealflow/deal"
	"dealflow/extract"
	"dealflow/metrics"
	"dealflow/scoring"
	"dealflow/storage"
)

// ErrEmptyInput rejects raw text that is empty or whitespace-only before
// a run id is assigned.
var ErrEmptyInput = errors.New("deal text is empty")

const remoteKeyPrefix = "cre-deals/"

// Agent runs the analysis pipeline. Safe for concurrent use; every run
// is independent.
type Agent struct {
	store     *storage.Store
	index     *storage.Index
	remote    storage.RemoteStore
	extractor *extract.Generative
	stats     *metrics.Metrics
	log       *zap.Logger
	demoMode  bool
}

// Options configure optional backends. Nil fields disable the feature.
type Options struct {
	Index    *storage.Index
	Remote   storage.RemoteStore
	Stats    *metrics.Metrics
	DemoMode bool
}

func New(store *storage.Store, extractor *extract.Generative, log *zap.Logger, opts Options) *Agent {
	if log == nil {
		log = zap.NewNop()
	}
	stats := opts.Stats
	if stats == nil {
		stats = metrics.New()
	}
	return &Agent{
		store:     store,
		index:     opts.Index,
		remote:    opts.Remote,
		extractor: extractor,
		stats:     stats,
		log:       log,
		demoMode:  opts.DemoMode,
	}
}

// Run analyzes one raw deal narrative. Local persistence is required for
// success; remote replication and indexing are best effort. The returned
// record is fully populated and already saved.
func (a *Agent) Run(ctx context.Context, rawText string, box scoring.BuyBox) (*storage.RunRecord, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptyInput
	}
	a.stats.RecordRunStart()

	runID := uuid.NewString()[:8]
	log := a.log.With(zap.String("run_id", runID))
	log.Info("deal analysis started", zap.Int("text_len", len(rawText)))

	heuristic := deal.Parse(rawText)
	extraction := a.extractor.Extract(ctx, rawText)
	if extraction.UsedFallback {
		a.stats.RecordGenerativeFallback()
	}
	merged := deal.Merge(extraction.Deal, heuristic)

	result := scoring.Score(merged, box)
	log.Info("deal scored",
		zap.Int("score", result.Score), zap.String("verdict", result.Verdict))

	narrative := a.extractor.Summarize(ctx, merged)
	if narrative.UsedFallback {
		a.stats.RecordNarrativeFallback()
	}

	run := &storage.RunRecord{
		RunID:            runID,
		Timestamp:        time.Now().UTC(),
		RawText:          rawText,
		StructuredDeal:   merged,
		ScoreData:        result,
		NarrativeSummary: narrative.Text,
		BuyBox:           box,
		Flags: storage.RunFlags{
			DemoMode:           a.demoMode,
			UsedGenerative:     !extraction.UsedFallback,
			GenerativeFallback: extraction.UsedFallback,
			NarrativeFallback:  narrative.UsedFallback,
			HasRemote:          a.remote != nil,
		},
	}

	if _, err := a.store.SaveRun(run); err != nil {
		a.stats.RecordRunCompletion(err)
		return nil, fmt.Errorf("persist run %s: %w", runID, err)
	}

	if a.remote != nil {
		body, _ := json.MarshalIndent(run, "", "  ")
		uri, err := a.remote.Put(ctx, remoteKeyPrefix+runID+".json", body)
		if err != nil {
			a.stats.RecordRemoteFailure()
			log.Warn("remote replication failed", zap.Error(err))
		} else {
			run.RemoteURI = uri
			if _, err := a.store.SaveRun(run); err != nil {
				log.Warn("rewrite with remote uri failed", zap.Error(err))
			}
		}
	}

	if a.index != nil {
		if err := a.index.RecordRun(ctx, run); err != nil {
			log.Warn("run index update failed", zap.Error(err))
		}
	}

	a.stats.RecordRunCompletion(nil)
	log.Info("deal analysis completed", zap.String("path", run.LocalPath))
	return run, nil
}

// AttachCRM creates contact, note, and task records for a completed run
// and re-persists the record with their ids. Never fails: the client
// contract guarantees ids even when the CRM is down.
func (a *Agent) AttachCRM(ctx context.Context, run *storage.RunRecord, client crm.Client) *storage.CRMRecords {
	d := run.StructuredDeal
	contact := crm.Contact{}
	if d.BrokerName != nil {
		contact.Name = *d.BrokerName
	}
	if d.BrokerEmail != nil {
		contact.Email = *d.BrokerEmail
	}
	if d.BrokerCompany != nil {
		contact.Firm = *d.BrokerCompany
	}

	contactID := client.UpsertContact(ctx, contact)
	noteID := client.CreateNote(ctx, contactID, run.NarrativeSummary)
	taskTitle := fmt.Sprintf("Review %s deal (%s, score %d)",
		orUnknown(d.PropertyTypeName()), run.ScoreData.Verdict, run.ScoreData.Score)
	// Follow-up comes due three days out.
	taskID := client.CreateTask(ctx, contactID, taskTitle, time.Now().AddDate(0, 0, 3))

	records := &storage.CRMRecords{ContactID: contactID, NoteID: noteID, TaskID: taskID}
	run.CRMRecords = records
	if _, err := a.store.SaveRun(run); err != nil {
		a.log.Warn("rewrite with crm records failed",
			zap.String("run_id", run.RunID), zap.Error(err))
	}
	return records
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
