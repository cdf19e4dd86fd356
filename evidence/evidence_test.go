package evidence

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dealflow/deal"
	"dealflow/scoring"
	"dealflow/storage"
)

func sampleRun() *storage.RunRecord {
	return &storage.RunRecord{
		RunID:     "run1234a",
		Timestamp: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		RawText:   "confidential broker call transcript about the Austin deal",
		StructuredDeal: deal.Record{
			PropertyType: deal.String(deal.TypeMultifamily),
			Location:     &deal.Location{City: deal.String("Austin"), State: deal.String("TX")},
			AskingPrice:  deal.Float(18_500_000),
		},
		ScoreData: scoring.Result{
			Score:   92,
			Verdict: scoring.VerdictPass,
			Reasons: []string{"✓ Cap rate 6.50% within target range"},
			Metrics: scoring.Metrics{CapRate: deal.Float(6.5)},
		},
		LocalPath: "/runs/run1234a.json",
	}
}

func TestBuildPacket(t *testing.T) {
	run := sampleRun()
	p := BuildPacket(run)

	if p.EvidenceType != PacketType {
		t.Fatalf("type = %q", p.EvidenceType)
	}
	if p.RunID != "run1234a" || !p.Timestamp.Equal(run.Timestamp) {
		t.Fatalf("identity fields = %+v", p)
	}
	if len(p.RawTextHash) != 16 {
		t.Fatalf("hash prefix = %q", p.RawTextHash)
	}
	for _, c := range p.RawTextHash {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Fatalf("hash prefix not hex: %q", p.RawTextHash)
		}
	}
	if p.DealSummary.PurchasePrice == nil || *p.DealSummary.PurchasePrice != 18_500_000 {
		t.Fatalf("price = %v", p.DealSummary.PurchasePrice)
	}
	if p.DealSummary.CapRate == nil || *p.DealSummary.CapRate != 6.5 {
		t.Fatalf("cap rate = %v", p.DealSummary.CapRate)
	}
	if p.Analysis.Score != 92 || p.Analysis.Verdict != scoring.VerdictPass {
		t.Fatalf("analysis = %+v", p.Analysis)
	}
	if p.StorageURI != "/runs/run1234a.json" {
		t.Fatalf("storage uri = %q", p.StorageURI)
	}
}

func TestBuildPacketPrefersRemoteURI(t *testing.T) {
	run := sampleRun()
	run.RemoteURI = "s3://bucket/cre-deals/run1234a.json"
	p := BuildPacket(run)
	if p.StorageURI != run.RemoteURI {
		t.Fatalf("storage uri = %q", p.StorageURI)
	}
}

func TestPacketDeterministicHash(t *testing.T) {
	a := BuildPacket(sampleRun())
	b := BuildPacket(sampleRun())
	if a.RawTextHash != b.RawTextHash {
		t.Fatal("hash must be deterministic for identical raw text")
	}

	run := sampleRun()
	run.RawText += "!"
	c := BuildPacket(run)
	if c.RawTextHash == a.RawTextHash {
		t.Fatal("hash must change with the raw text")
	}
}

func TestPacketNeverCarriesRawText(t *testing.T) {
	run := sampleRun()
	data, err := json.Marshal(BuildPacket(run))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "confidential broker call") {
		t.Fatal("raw text leaked into the evidence packet")
	}
}

func TestLogAppendsOneLinePerSend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evidence_log.jsonl")
	l := NewLog(path)
	p := BuildPacket(sampleRun())

	t0 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	if err := l.Append("compliance_archive", t0, p); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.Append("regulator_feed", t0.Add(time.Second), p); err != nil {
		t.Fatalf("append: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var destinations []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry struct {
			Destination string    `json:"destination"`
			Timestamp   time.Time `json:"timestamp"`
			Evidence    Packet    `json:"evidence"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("line not valid JSON: %v", err)
		}
		if entry.Evidence.RunID != "run1234a" {
			t.Fatalf("evidence run id = %q", entry.Evidence.RunID)
		}
		destinations = append(destinations, entry.Destination)
	}
	if len(destinations) != 2 || destinations[0] != "compliance_archive" || destinations[1] != "regulator_feed" {
		t.Fatalf("destinations = %v", destinations)
	}
}

type failingSink struct{ name string }

func (s failingSink) Name() string { return s.name }

func (s failingSink) Send(ctx context.Context, p Packet) (Ack, error) {
	return Ack{}, errors.New("sink unavailable")
}

func TestDispatchLogsEverySendRegardlessOfAck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evidence_log.jsonl")
	d := NewDispatcher([]Sink{
		SimulatedSink{SinkName: "archive"},
		failingSink{name: "flaky"},
	}, NewLog(path), nil)

	acks := d.Dispatch(context.Background(), BuildPacket(sampleRun()))

	if len(acks) != 2 {
		t.Fatalf("acks = %d", len(acks))
	}
	if !acks[0].Ack || acks[0].EvidenceID != "archive-run1234a" {
		t.Fatalf("simulated ack = %+v", acks[0])
	}
	if acks[1].Ack {
		t.Fatal("failed sink must report a negative ack")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("log lines = %d, want one per sink", len(lines))
	}
}
