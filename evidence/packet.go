// Package evidence derives condensed, privacy-safe compliance artifacts
// from run records and delivers them to audit sinks, keeping a local
// append-only log of every send.
package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"dealflow/deal"
	"dealflow/storage"
)

// PacketType tags every evidence packet emitted by this pipeline.
const PacketType = "cre_deal_analysis"

const hashPrefixLen = 16

// DealSummary is the condensed deal view carried by a packet.
type DealSummary struct {
	PropertyType  *string        `json:"property_type"`
	Location      *deal.Location `json:"location"`
	PurchasePrice *float64       `json:"purchase_price"`
	CapRate       *float64       `json:"cap_rate"`
}

// Analysis is the condensed scoring view carried by a packet.
type Analysis struct {
	Score   int      `json:"score"`
	Verdict string   `json:"verdict"`
	Reasons []string `json:"reasons"`
}

// Packet is a write-once compliance artifact. The raw narrative text is
// never included; only a truncated SHA-256 of it is.
type Packet struct {
	EvidenceType string              `json:"evidence_type"`
	RunID        string              `json:"run_id"`
	Timestamp    time.Time           `json:"timestamp"`
	RawTextHash  string              `json:"raw_text_hash"`
	DealSummary  DealSummary         `json:"deal_summary"`
	Analysis     Analysis            `json:"analysis"`
	CRMRecords   *storage.CRMRecords `json:"crm_records,omitempty"`
	StorageURI   string              `json:"storage_uri,omitempty"`
}

// BuildPacket condenses a run record into its compliance artifact.
func BuildPacket(run *storage.RunRecord) Packet {
	sum := sha256.Sum256([]byte(run.RawText))
	locator := run.RemoteURI
	if locator == "" {
		locator = run.LocalPath
	}
	return Packet{
		EvidenceType: PacketType,
		RunID:        run.RunID,
		Timestamp:    run.Timestamp,
		RawTextHash:  hex.EncodeToString(sum[:])[:hashPrefixLen],
		DealSummary: DealSummary{
			PropertyType:  run.StructuredDeal.PropertyType,
			Location:      run.StructuredDeal.Location,
			PurchasePrice: run.StructuredDeal.ResolvedPrice(),
			CapRate:       run.ScoreData.Metrics.CapRate,
		},
		Analysis: Analysis{
			Score:   run.ScoreData.Score,
			Verdict: run.ScoreData.Verdict,
			Reasons: run.ScoreData.Reasons,
		},
		CRMRecords: run.CRMRecords,
		StorageURI: locator,
	}
}
