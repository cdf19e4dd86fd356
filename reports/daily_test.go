package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dealflow/deal"
	"dealflow/scoring"
	"dealflow/storage"
)

func run(id string, score int, propType, city string) *storage.RunRecord {
	return &storage.RunRecord{
		RunID: id,
		StructuredDeal: deal.Record{
			PropertyType:  deal.String(propType),
			Location:      &deal.Location{City: deal.String(city)},
			PurchasePrice: deal.Float(10_000_000),
		},
		ScoreData: scoring.Result{Score: score, Verdict: scoring.VerdictFor(score)},
	}
}

func TestComputeNoData(t *testing.T) {
	s := Compute(nil, time.Now())

	require.Equal(t, StatusNoData, s.Status)
	require.Equal(t, "No deal runs found", s.Message)
	require.Zero(t, s.DealCount)
	require.Empty(t, s.TopDeals)
}

func TestComputeAggregates(t *testing.T) {
	now := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	runs := []*storage.RunRecord{
		run("a", 92, deal.TypeMultifamily, "Austin"),
		run("b", 61, deal.TypeOffice, "Miami"),
		run("c", 30, deal.TypeRetail, "Dallas"),
		run("d", 77, deal.TypeIndustrial, "Phoenix"),
	}

	s := Compute(runs, now)

	require.Equal(t, StatusSuccess, s.Status)
	require.Equal(t, now, s.JobRunTime)
	require.Equal(t, 4, s.DealCount)
	// (92+61+30+77)/4 = 65.0
	require.Equal(t, 65.0, s.AvgScore)
	require.Equal(t, VerdictCounts{Pass: 2, Watch: 1, HardPass: 1}, s.Verdicts)

	require.Len(t, s.TopDeals, 3)
	require.Equal(t, "a", s.TopDeals[0].RunID)
	require.Equal(t, "d", s.TopDeals[1].RunID)
	require.Equal(t, "b", s.TopDeals[2].RunID)
	require.Equal(t, deal.TypeMultifamily, s.TopDeals[0].PropertyType)
	require.Equal(t, "Austin", s.TopDeals[0].Location)
	require.NotNil(t, s.TopDeals[0].Price)
	require.Equal(t, 10_000_000.0, *s.TopDeals[0].Price)
}

func TestComputeAverageRoundsToOneDecimal(t *testing.T) {
	runs := []*storage.RunRecord{
		run("a", 100, deal.TypeMultifamily, "Austin"),
		run("b", 50, deal.TypeOffice, "Miami"),
		run("c", 50, deal.TypeRetail, "Dallas"),
	}
	s := Compute(runs, time.Now())
	// 200/3 = 66.666... rounds to 66.7.
	require.Equal(t, 66.7, s.AvgScore)
}

func TestComputeTieBreakKeepsReadOrder(t *testing.T) {
	runs := []*storage.RunRecord{
		run("aa", 80, deal.TypeMultifamily, "Austin"),
		run("bb", 80, deal.TypeOffice, "Miami"),
		run("cc", 80, deal.TypeRetail, "Dallas"),
		run("dd", 80, deal.TypeIndustrial, "Phoenix"),
	}
	s := Compute(runs, time.Now())

	require.Len(t, s.TopDeals, 3)
	require.Equal(t, "aa", s.TopDeals[0].RunID)
	require.Equal(t, "bb", s.TopDeals[1].RunID)
	require.Equal(t, "cc", s.TopDeals[2].RunID)
}

func TestComputeFewerThanThreeDeals(t *testing.T) {
	runs := []*storage.RunRecord{run("only", 55, deal.TypeOffice, "Miami")}
	s := Compute(runs, time.Now())

	require.Len(t, s.TopDeals, 1)
	require.Equal(t, "only", s.TopDeals[0].RunID)
}

func TestComputeUnknownPlaceholders(t *testing.T) {
	r := &storage.RunRecord{
		RunID:     "bare",
		ScoreData: scoring.Result{Score: 65, Verdict: scoring.VerdictWatch},
	}
	s := Compute([]*storage.RunRecord{r}, time.Now())

	require.Equal(t, "Unknown", s.TopDeals[0].PropertyType)
	require.Equal(t, "Unknown", s.TopDeals[0].Location)
	require.Nil(t, s.TopDeals[0].Price)
}

func TestRunScansStore(t *testing.T) {
	store, err := storage.NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	_, err = store.SaveRun(run("persisted", 88, deal.TypeMultifamily, "Denver"))
	require.NoError(t, err)

	s, err := Run(store)
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, s.Status)
	require.Equal(t, 1, s.DealCount)
	require.Equal(t, 88.0, s.AvgScore)
}
