// Package storage persists run records: one JSON document per run in a
// local directory (the durability contract), a best-effort SQLite index
// for history queries, and an optional remote replica.
package storage

import (
	"time"

	"dealflow/deal"
	"dealflow/scoring"
)

// CRMRecords links a run to the CRM artifacts created for it.
type CRMRecords struct {
	ContactID string `json:"contact_id"`
	NoteID    string `json:"note_id"`
	TaskID    string `json:"task_id"`
}

// RunFlags snapshots the configuration a run executed under, including
// which backends actually served it.
type RunFlags struct {
	DemoMode           bool `json:"demo_mode"`
	UsedGenerative     bool `json:"used_generative"`
	GenerativeFallback bool `json:"generative_fallback"`
	NarrativeFallback  bool `json:"narrative_fallback"`
	HasRemote          bool `json:"has_remote"`
}

// RunRecord is the durable record of one end-to-end analysis. The run_id
// is assigned exactly once at creation; CRM and locator fields are
// appended by downstream steps before the record is re-persisted.
type RunRecord struct {
	RunID            string         `json:"run_id"`
	Timestamp        time.Time      `json:"timestamp"`
	RawText          string         `json:"raw_text"`
	StructuredDeal   deal.Record    `json:"structured_deal"`
	ScoreData        scoring.Result `json:"score_data"`
	NarrativeSummary string         `json:"narrative_summary"`
	BuyBox           scoring.BuyBox `json:"buybox"`
	Flags            RunFlags       `json:"config"`
	LocalPath        string         `json:"local_path,omitempty"`
	RemoteURI        string         `json:"remote_uri,omitempty"`
	CRMRecords       *CRMRecords    `json:"crm_records,omitempty"`
}
