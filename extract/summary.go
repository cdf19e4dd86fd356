package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"dealflow/deal"
)

const summaryPrompt = `You are a senior investment professional preparing a summary for an Investment Committee.

Based on this commercial real estate deal data, write a concise 2-3 paragraph IC memo summary.

Deal Data:
%s

Focus on:
1. Property fundamentals (type, location, size, condition)
2. Financial metrics (price, NOI, cap rate, returns)
3. Key risks and opportunities
4. Recommendation context

Write in a professional, direct tone. Be analytical but concise.

Summary:`

// Narrative is a summarization outcome; UsedFallback marks the
// deterministic template path.
type Narrative struct {
	Text         string
	UsedFallback bool
}

// Summarize produces an investment-committee style summary of the merged
// record. Service errors and empty responses fall back to the template.
func (g *Generative) Summarize(ctx context.Context, rec deal.Record) Narrative {
	if g.completer == nil {
		return Narrative{Text: fallbackSummary(rec), UsedFallback: true}
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Narrative{Text: fallbackSummary(rec), UsedFallback: true}
	}
	text, err := g.completer.Complete(ctx, fmt.Sprintf(summaryPrompt, string(data)))
	if err != nil || strings.TrimSpace(text) == "" {
		g.log.Warn("generative summary failed, using template", zap.Error(err))
		return Narrative{Text: fallbackSummary(rec), UsedFallback: true}
	}
	return Narrative{Text: strings.TrimSpace(text)}
}

// fallbackSummary renders the fixed template: title, price sentence when
// a price is known, NOI/cap sentence when both are known, then generic
// opportunity and diligence sentences.
func fallbackSummary(rec deal.Record) string {
	propType := "commercial property"
	if rec.PropertyType != nil && *rec.PropertyType != "" {
		propType = *rec.PropertyType
	}
	city := rec.Location.CityName()
	if city == "" {
		city = "Unknown"
	}
	state := rec.Location.StateName()

	var b strings.Builder
	fmt.Fprintf(&b, "**Investment Opportunity: %s - %s, %s**\n\n", titleCase(propType), city, state)

	if price := rec.ResolvedPrice(); price != nil {
		fmt.Fprintf(&b, "The subject property is available for acquisition at $%s. ", humanize.Commaf(*price))
	}
	if rec.NOI != nil && rec.CapRate != nil {
		fmt.Fprintf(&b, "The asset generates $%s in annual NOI at a %.2f%% cap rate. ", humanize.Commaf(*rec.NOI), *rec.CapRate)
	}
	fmt.Fprintf(&b, "This %s property in %s presents an opportunity for value creation through operational improvements and market positioning. ", propType, city)
	b.WriteString("\n\nKey considerations include current market dynamics, property condition, and execution risk on the business plan. Further due diligence is recommended to validate underwriting assumptions.")
	return b.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
