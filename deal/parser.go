package deal

import (
	"regexp"
	"strconv"
	"strings"
)

const notesLimit = 500

// Currency forms in priority order; the suffix fixes the multiplier.
var currencyPatterns = []struct {
	re   *regexp.Regexp
	mult float64
}{
	{regexp.MustCompile(`(?i)\$?\s*(\d+\.?\d*)\s*million`), 1e6},
	{regexp.MustCompile(`(?i)\$?\s*(\d+\.?\d*)\s*M\b`), 1e6},
	{regexp.MustCompile(`(?i)\$?\s*(\d+\.?\d*)\s*billion`), 1e9},
	{regexp.MustCompile(`(?i)\$?\s*(\d+\.?\d*)\s*B\b`), 1e9},
	{regexp.MustCompile(`(?i)\$\s*(\d+\.?\d*)\s*K`), 1e3},
	{regexp.MustCompile(`\$\s*(\d+\.?\d*)`), 1},
}

var (
	percentPattern = regexp.MustCompile(`(\d+\.?\d*)\s*%`)
	unitPatterns   = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)[-\s]unit`),
		regexp.MustCompile(`(?i)(\d+)\s+units`),
	}
	squareFeetPatterns = []struct {
		re   *regexp.Regexp
		mult float64
	}{
		{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*K\s*SF`), 1e3},
		{regexp.MustCompile(`(?i)(\d+)\s*SF`), 1},
		{regexp.MustCompile(`(?i)(\d+)\s*square\s*feet`), 1},
		{regexp.MustCompile(`(?i)(\d+)\s*sq\s*ft`), 1},
	}
	locationPattern = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*),\s*([A-Z]{2}|[A-Z][a-z]+)`)
	spokenAtPattern = regexp.MustCompile(`(?i)\s+at\s+`)
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	namePatterns    = []*regexp.Regexp{
		regexp.MustCompile(`with\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
		regexp.MustCompile(`from\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
		regexp.MustCompile(`broker\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
	}
	noiPattern       = regexp.MustCompile(`(?i)NOI[^\d]*(\$?[\d,.]+\s*(?:million|M|K)?)`)
	capRatePattern   = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*%?\s*cap`)
	askingPattern    = regexp.MustCompile(`(?i)asking[^\d]*(\$[\d,.]+\s*(?:million|M)?)`)
	occupancyPattern = regexp.MustCompile(`(?i)(\d+)\s*%\s*occup`)
	yearBuiltPattern = regexp.MustCompile(`(?i)built\s+(?:in\s+)?(\d{4})`)
)

// Keyword tables checked in fixed priority order; first hit wins.
var propertyTypeKeywords = []struct {
	kind     string
	keywords []string
}{
	{TypeMultifamily, []string{"multifamily", "multi-family", "apartment", "unit"}},
	{TypeOffice, []string{"office"}},
	{TypeIndustrial, []string{"industrial", "warehouse", "distribution"}},
	{TypeRetail, []string{"retail", "shopping center", "mall"}},
	{TypeMixedUse, []string{"mixed use", "mixed-use"}},
}

var commonCities = []string{
	"Austin", "Dallas", "Houston", "San Antonio", "Phoenix", "Los Angeles",
	"San Francisco", "Seattle", "Portland", "Denver", "Atlanta", "Miami",
	"New York", "Boston", "Chicago", "Philadelphia",
}

var creFirms = []string{"JLL", "CBRE", "Cushman", "Colliers", "Marcus & Millichap", "Newmark"}

// ParseCurrency extracts the first dollar amount from text. Commas are
// stripped before matching so "$18,500,000" parses as a plain amount.
func ParseCurrency(text string) (float64, bool) {
	text = strings.ReplaceAll(text, ",", "")
	for _, p := range currencyPatterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			return value * p.mult, true
		}
	}
	return 0, false
}

// ParsePercentage extracts the first "<number>%" occurrence.
func ParsePercentage(text string) (float64, bool) {
	if m := percentPattern.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return value, true
		}
	}
	return 0, false
}

// ParseUnits extracts a unit count from forms like "148-unit" or "32 units".
func ParseUnits(text string) (int, bool) {
	for _, re := range unitPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// ParseSquareFeet extracts square footage, scaling "20k SF" forms by 1000.
func ParseSquareFeet(text string) (int, bool) {
	text = strings.ReplaceAll(text, ",", "")
	for _, p := range squareFeetPatterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			value, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return int(value * p.mult), true
			}
		}
	}
	return 0, false
}

// ExtractPropertyType matches the keyword table in priority order.
func ExtractPropertyType(text string) *string {
	lower := strings.ToLower(text)
	for _, entry := range propertyTypeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return String(entry.kind)
			}
		}
	}
	return nil
}

// ExtractLocation tries the "City, ST|State" pattern first, then falls
// back to a scan against common city names (state stays unresolved on the
// fallback path).
func ExtractLocation(text string) *Location {
	if m := locationPattern.FindStringSubmatch(text); m != nil {
		return &Location{City: String(m[1]), State: String(m[2])}
	}
	lower := strings.ToLower(text)
	for _, city := range commonCities {
		if strings.Contains(lower, strings.ToLower(city)) {
			return &Location{City: String(city)}
		}
	}
	return &Location{}
}

// ExtractEmail finds an email address, accepting spoken "at" for "@".
func ExtractEmail(text string) *string {
	text = spokenAtPattern.ReplaceAllString(text, "@")
	if m := emailPattern.FindString(text); m != "" {
		return String(m)
	}
	return nil
}

func extractBrokerInfo(text string) (name, email, company *string) {
	email = ExtractEmail(text)
	lower := strings.ToLower(text)
	for _, firm := range creFirms {
		if strings.Contains(lower, strings.ToLower(firm)) {
			company = String(firm)
			break
		}
	}
	for _, re := range namePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			name = String(m[1])
			break
		}
	}
	return name, email, company
}

// Parse extracts a structurally complete Record from free-form deal text
// using regexes and keyword tables. Unresolved fields stay nil; Parse
// never fails, including on empty input.
func Parse(text string) Record {
	rec := Record{
		PropertyType: ExtractPropertyType(text),
		Location:     ExtractLocation(text),
	}
	if text != "" {
		rec.Notes = String(truncate(text, notesLimit))
	}

	if units, ok := ParseUnits(text); ok {
		rec.Units = Int(units)
	}
	if sf, ok := ParseSquareFeet(text); ok {
		rec.SquareFeet = Int(sf)
	}

	rec.BrokerName, rec.BrokerEmail, rec.BrokerCompany = extractBrokerInfo(text)

	if m := noiPattern.FindStringSubmatch(text); m != nil {
		if noi, ok := ParseCurrency(m[1]); ok {
			rec.NOI = Float(noi)
		}
	}
	if m := capRatePattern.FindStringSubmatch(text); m != nil {
		if cap, err := strconv.ParseFloat(m[1], 64); err == nil {
			rec.CapRate = Float(cap)
		}
	}

	if m := askingPattern.FindStringSubmatch(text); m != nil {
		if asking, ok := ParseCurrency(m[1]); ok {
			rec.AskingPrice = Float(asking)
		}
	}
	if rec.AskingPrice == nil {
		// First large amount wins, scanning sentence by sentence.
		for _, sentence := range strings.Split(text, ".") {
			if price, ok := ParseCurrency(sentence); ok && price > 100_000 {
				rec.PurchasePrice = Float(price)
				break
			}
		}
	}
	if rec.AskingPrice != nil && rec.PurchasePrice == nil {
		rec.PurchasePrice = Float(*rec.AskingPrice)
	}

	if m := occupancyPattern.FindStringSubmatch(text); m != nil {
		if pct, err := strconv.ParseFloat(m[1], 64); err == nil {
			rec.Occupancy = Float(pct / 100)
		}
	}
	if m := yearBuiltPattern.FindStringSubmatch(text); m != nil {
		if year, err := strconv.Atoi(m[1]); err == nil {
			rec.YearBuilt = Int(year)
		}
	}

	return rec
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
