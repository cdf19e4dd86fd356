// Package scoring evaluates a structured deal record against buy-box
// acquisition criteria and produces an explainable 0-100 score.
package scoring

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"dealflow/deal"
)

// Leverage is assessed against a fixed 75% assumed debt fraction, not the
// buy-box max_ltv.
const assumedDebtFraction = 0.75

// BuyBox is the caller-supplied set of acquisition criteria a deal is
// scored against. Never mutated by the pipeline.
type BuyBox struct {
	MinCapRate             float64  `yaml:"min_cap_rate" json:"min_cap_rate"`
	MaxCapRate             float64  `yaml:"max_cap_rate" json:"max_cap_rate"`
	MaxLTV                 float64  `yaml:"max_ltv" json:"max_ltv"`
	MinDealSize            float64  `yaml:"min_deal_size" json:"min_deal_size"`
	MaxDealSize            float64  `yaml:"max_deal_size" json:"max_deal_size"`
	PreferredMarkets       []string `yaml:"preferred_markets" json:"preferred_markets"`
	PreferredPropertyTypes []string `yaml:"preferred_property_types" json:"preferred_property_types"`
}

// DefaultBuyBox returns the stock acquisition criteria.
func DefaultBuyBox() BuyBox {
	return BuyBox{
		MinCapRate:             5.0,
		MaxCapRate:             8.0,
		MaxLTV:                 0.75,
		MinDealSize:            5_000_000,
		MaxDealSize:            50_000_000,
		PreferredMarkets:       []string{"Austin", "Dallas", "Phoenix", "Atlanta", "Denver"},
		PreferredPropertyTypes: []string{deal.TypeMultifamily, deal.TypeIndustrial},
	}
}

// Metrics carries the derived figures behind a score. Nil means the
// figure could not be computed from the record.
type Metrics struct {
	CapRate         *float64 `json:"cap_rate"`
	CapRateComputed *float64 `json:"cap_rate_computed,omitempty"`
	DealSize        *float64 `json:"deal_size"`
	PricePerUnit    *float64 `json:"price_per_unit,omitempty"`
	PricePerSF      *float64 `json:"price_per_sf,omitempty"`
	AssumedLTV      *float64 `json:"assumed_ltv,omitempty"`
	LTVFlag         *bool    `json:"ltv_flag,omitempty"`
}

// Result is the outcome of scoring one deal. Computed fresh per call;
// purely a function of (Record, BuyBox).
type Result struct {
	Score   int      `json:"score"`
	Verdict string   `json:"verdict"`
	Reasons []string `json:"reasons"`
	Metrics Metrics  `json:"metrics"`
}

// Verdict labels.
const (
	VerdictPass     = "Pass"
	VerdictWatch    = "Watch"
	VerdictHardPass = "Hard Pass"
)

// VerdictFor maps a clamped score to its verdict tier.
func VerdictFor(score int) string {
	switch {
	case score >= 75:
		return VerdictPass
	case score >= 50:
		return VerdictWatch
	default:
		return VerdictHardPass
	}
}

// Score evaluates a deal against the buy-box. Deductions are independent
// and applied in a fixed order, each contributing one reason string.
// Fractional penalties accumulate in floating point; the final score is
// clamped to [0, 100] and truncated to an integer.
func Score(d deal.Record, box BuyBox) Result {
	score := 100.0
	reasons := []string{}
	var m Metrics

	price := d.ResolvedPrice()
	noi := presentValue(d.NOI)
	capRate := presentValue(d.CapRate)
	city := d.Location.CityName()

	if capRate == nil && price != nil && noi != nil {
		computed := (*noi / *price) * 100
		capRate = &computed
		m.CapRateComputed = &computed
	}
	if price != nil {
		if d.Units != nil && *d.Units > 0 {
			m.PricePerUnit = deal.Float(*price / float64(*d.Units))
		}
		if d.SquareFeet != nil && *d.SquareFeet > 0 {
			m.PricePerSF = deal.Float(*price / float64(*d.SquareFeet))
		}
	}
	m.CapRate = capRate
	m.DealSize = price

	// 1. Cap rate.
	switch {
	case capRate == nil:
		score -= 10
		reasons = append(reasons, "Missing cap rate data (-10 pts)")
	case *capRate < box.MinCapRate:
		penalty := math.Min(30, (box.MinCapRate-*capRate)*5)
		score -= penalty
		reasons = append(reasons, fmt.Sprintf("Cap rate %.2f%% below minimum %v%% (-%.0f pts)", *capRate, box.MinCapRate, penalty))
	case *capRate > box.MaxCapRate:
		penalty := math.Min(20, (*capRate-box.MaxCapRate)*3)
		score -= penalty
		reasons = append(reasons, fmt.Sprintf("Cap rate %.2f%% above maximum %v%% (-%.0f pts)", *capRate, box.MaxCapRate, penalty))
	default:
		reasons = append(reasons, fmt.Sprintf("✓ Cap rate %.2f%% within target range", *capRate))
	}

	// 2. Deal size.
	switch {
	case price == nil:
		score -= 15
		reasons = append(reasons, "Missing purchase price (-15 pts)")
	case *price < box.MinDealSize:
		score -= 20
		reasons = append(reasons, fmt.Sprintf("Deal size %s below minimum %s (-20 pts)", dollars(*price), dollars(box.MinDealSize)))
	case *price > box.MaxDealSize:
		score -= 25
		reasons = append(reasons, fmt.Sprintf("Deal size %s above maximum %s (-25 pts)", dollars(*price), dollars(box.MaxDealSize)))
	default:
		reasons = append(reasons, fmt.Sprintf("✓ Deal size %s within range", dollars(*price)))
	}

	// 3. Market.
	if len(box.PreferredMarkets) > 0 {
		switch {
		case city == "":
			score -= 10
			reasons = append(reasons, "Missing location data (-10 pts)")
		case !contains(box.PreferredMarkets, city):
			score -= 15
			reasons = append(reasons, fmt.Sprintf("Market %s not in preferred list (-15 pts)", city))
		default:
			reasons = append(reasons, fmt.Sprintf("✓ Market %s is preferred", city))
		}
	}

	// 4. Property type.
	if len(box.PreferredPropertyTypes) > 0 && d.PropertyType != nil {
		if !contains(box.PreferredPropertyTypes, *d.PropertyType) {
			score -= 10
			reasons = append(reasons, fmt.Sprintf("Property type %s not preferred (-10 pts)", *d.PropertyType))
		} else {
			reasons = append(reasons, fmt.Sprintf("✓ Property type %s is preferred", *d.PropertyType))
		}
	}

	// 5. Assumed leverage.
	if noi != nil && price != nil {
		assumedDebt := *price * assumedDebtFraction
		ltv := assumedDebt / *price
		m.AssumedLTV = &ltv
		if ltv > box.MaxLTV {
			penalty := math.Min(20, (ltv-box.MaxLTV)*100)
			score -= penalty
			reasons = append(reasons, fmt.Sprintf("Assumed LTV %.1f%% exceeds max %.1f%% (-%.0f pts)", ltv*100, box.MaxLTV*100, penalty))
			m.LTVFlag = boolPtr(true)
		} else {
			m.LTVFlag = boolPtr(false)
		}
	}

	clamped := math.Max(0, math.Min(100, score))
	final := int(clamped)
	return Result{
		Score:   final,
		Verdict: VerdictFor(final),
		Reasons: reasons,
		Metrics: m,
	}
}

// presentValue treats nil and zero as unresolved.
func presentValue(p *float64) *float64 {
	if p == nil || *p == 0 {
		return nil
	}
	return p
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func dollars(v float64) string {
	return "$" + humanize.Commaf(math.Trunc(v))
}

func boolPtr(b bool) *bool { return &b }
