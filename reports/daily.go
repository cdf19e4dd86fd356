// Package reports computes the daily rollup over all persisted runs.
// Each invocation is one synchronous full scan; nothing is cached or
// persisted between invocations.
package reports

import (
	"math"
	"sort"
	"time"

	"dealflow/storage"
)

// Summary statuses.
const (
	StatusSuccess = "success"
	StatusNoData  = "no_data"
)

const topDealCount = 3

// TopDeal is one of the highest-scoring runs in the scan window.
type TopDeal struct {
	RunID        string   `json:"run_id"`
	Score        int      `json:"score"`
	Verdict      string   `json:"verdict"`
	PropertyType string   `json:"property_type"`
	Location     string   `json:"location"`
	Price        *float64 `json:"price"`
}

// VerdictCounts partitions the scanned runs by verdict label.
type VerdictCounts struct {
	Pass     int `json:"pass"`
	Watch    int `json:"watch"`
	HardPass int `json:"hard_pass"`
}

// Summary is the daily aggregation result. Recomputed on every
// invocation from the full run history.
type Summary struct {
	Status     string        `json:"status"`
	Message    string        `json:"message,omitempty"`
	JobRunTime time.Time     `json:"job_run_time"`
	DealCount  int           `json:"deal_count"`
	AvgScore   float64       `json:"avg_score"`
	Verdicts   VerdictCounts `json:"verdicts"`
	TopDeals   []TopDeal     `json:"top_deals"`
}

// Run scans every persisted run record and computes the summary.
func Run(st *storage.Store) (Summary, error) {
	runs, err := st.ListRuns()
	if err != nil {
		return Summary{}, err
	}
	return Compute(runs, time.Now()), nil
}

// Compute aggregates the given runs. Top deals are ordered by score
// descending with a stable sort, so ties keep the order the records were
// read in (lexical by run id when they come from the store).
func Compute(runs []*storage.RunRecord, now time.Time) Summary {
	if len(runs) == 0 {
		return Summary{
			Status:    StatusNoData,
			Message:   "No deal runs found",
			DealCount: 0,
		}
	}

	var counts VerdictCounts
	total := 0
	for _, run := range runs {
		total += run.ScoreData.Score
		switch run.ScoreData.Verdict {
		case "Pass":
			counts.Pass++
		case "Watch":
			counts.Watch++
		case "Hard Pass":
			counts.HardPass++
		}
	}
	avg := math.Round(float64(total)/float64(len(runs))*10) / 10

	ranked := append([]*storage.RunRecord(nil), runs...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ScoreData.Score > ranked[j].ScoreData.Score
	})
	if len(ranked) > topDealCount {
		ranked = ranked[:topDealCount]
	}
	top := make([]TopDeal, 0, len(ranked))
	for _, run := range ranked {
		top = append(top, TopDeal{
			RunID:        run.RunID,
			Score:        run.ScoreData.Score,
			Verdict:      run.ScoreData.Verdict,
			PropertyType: orUnknown(run.StructuredDeal.PropertyTypeName()),
			Location:     orUnknown(run.StructuredDeal.Location.CityName()),
			Price:        run.StructuredDeal.ResolvedPrice(),
		})
	}

	return Summary{
		Status:     StatusSuccess,
		JobRunTime: now,
		DealCount:  len(runs),
		AvgScore:   avg,
		Verdicts:   counts,
		TopDeals:   top,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
