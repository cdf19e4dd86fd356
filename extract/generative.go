// Package extract adapts a generative completion backend into the deal
// extraction and narrative summarization steps. Every failure path
// degrades to a deterministic fallback; nothing here returns an error to
// the pipeline.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"dealflow/deal"
	"dealflow/llm"
)

const stubNotesLimit = 200

const extractionPrompt = `You are a commercial real estate expert. Extract structured deal information from the following text.

Return ONLY valid JSON with these fields (use null for missing data):
{
  "property_type": "multifamily|office|industrial|retail|mixed_use|other",
  "location": {"city": "string", "state": "string"},
  "purchase_price": number (in dollars),
  "noi": number (in dollars, annual),
  "cap_rate": number (as decimal, e.g., 5.25 for 5.25%%),
  "units": number (for multifamily),
  "square_feet": number,
  "year_built": number,
  "occupancy": number (as decimal, e.g., 0.95 for 95%%),
  "asking_price": number (in dollars),
  "broker_name": "string",
  "broker_email": "string",
  "broker_company": "string",
  "seller_name": "string",
  "notes": "string"
}

Text:
%s

JSON:`

// Extraction is a generative extraction outcome. UsedFallback is set
// whenever the deterministic stub was substituted, so callers can observe
// degradation without reading logs.
type Extraction struct {
	Deal         deal.Record
	UsedFallback bool
}

// Generative wraps a completion backend for extraction and summarization.
// A nil Completer is valid and forces the fallback path on every call.
type Generative struct {
	completer llm.Completer
	log       *zap.Logger
}

func NewGenerative(completer llm.Completer, log *zap.Logger) *Generative {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generative{completer: completer, log: log}
}

// Extract runs the strict-schema extraction prompt against the backend.
// The model may wrap the JSON object in prose, so the response is
// narrowed to the first "{" through the last "}" before parsing. Any
// failure degrades silently to the stub record.
func (g *Generative) Extract(ctx context.Context, text string) Extraction {
	if g.completer == nil {
		return stubExtraction(text)
	}
	raw, err := g.completer.Complete(ctx, fmt.Sprintf(extractionPrompt, text))
	if err != nil {
		g.log.Warn("generative extraction failed, using stub", zap.Error(err))
		return stubExtraction(text)
	}
	obj := isolateJSONObject(raw)
	if obj == "" {
		g.log.Warn("generative response contained no JSON object, using stub")
		return stubExtraction(text)
	}
	var rec deal.Record
	if err := json.Unmarshal([]byte(obj), &rec); err != nil {
		g.log.Warn("generative JSON parse failed, using stub", zap.Error(err))
		return stubExtraction(text)
	}
	return Extraction{Deal: rec}
}

// stubExtraction leaves every field unresolved except notes.
func stubExtraction(text string) Extraction {
	var rec deal.Record
	if text != "" {
		rec.Notes = deal.String(truncate(text, stubNotesLimit))
	}
	return Extraction{Deal: rec, UsedFallback: true}
}

// isolateJSONObject slices out the first "{" through the last "}".
func isolateJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
