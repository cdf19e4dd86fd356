// Package deal defines the structured deal record extracted from raw
// narrative text and the heuristic extractor and merge resolver that
// produce it. Every field is optional: a nil pointer means the field
// could not be resolved from the source text.
package deal

import "strings"

// Recognized property types.
const (
	TypeMultifamily = "multifamily"
	TypeOffice      = "office"
	TypeIndustrial  = "industrial"
	TypeRetail      = "retail"
	TypeMixedUse    = "mixed_use"
	TypeOther       = "other"
)

// Location is the city/state pair attached to a deal. Either side may be
// unresolved independently of the other.
type Location struct {
	City  *string `json:"city"`
	State *string `json:"state"`
}

// CityName returns the city or "" when the location or city is unresolved.
func (l *Location) CityName() string {
	if l == nil || l.City == nil {
		return ""
	}
	return strings.TrimSpace(*l.City)
}

// StateName returns the state or "" when unresolved.
func (l *Location) StateName() string {
	if l == nil || l.State == nil {
		return ""
	}
	return strings.TrimSpace(*l.State)
}

// Record is one structured deal. Created by the extractors, mutated only
// by Merge, and treated as immutable afterwards.
type Record struct {
	PropertyType  *string   `json:"property_type"`
	Location      *Location `json:"location"`
	PurchasePrice *float64  `json:"purchase_price"`
	AskingPrice   *float64  `json:"asking_price"`
	NOI           *float64  `json:"noi"`
	CapRate       *float64  `json:"cap_rate"`
	Units         *int      `json:"units"`
	SquareFeet    *int      `json:"square_feet"`
	YearBuilt     *int      `json:"year_built"`
	Occupancy     *float64  `json:"occupancy"`
	BrokerName    *string   `json:"broker_name"`
	BrokerEmail   *string   `json:"broker_email"`
	BrokerCompany *string   `json:"broker_company"`
	SellerName    *string   `json:"seller_name"`
	Notes         *string   `json:"notes"`
}

// ResolvedPrice returns the purchase price, falling back to the asking
// price. Zero values count as unresolved so a parsed "$0" never masks a
// usable asking price.
func (r *Record) ResolvedPrice() *float64 {
	if r.PurchasePrice != nil && *r.PurchasePrice != 0 {
		return r.PurchasePrice
	}
	if r.AskingPrice != nil && *r.AskingPrice != 0 {
		return r.AskingPrice
	}
	return nil
}

// PropertyTypeName returns the property type or "" when unresolved.
func (r *Record) PropertyTypeName() string {
	if r.PropertyType == nil {
		return ""
	}
	return *r.PropertyType
}

// String, Float, and Int build optional field values in place.
func String(s string) *string { return &s }

func Float(v float64) *float64 { return &v }

func Int(n int) *int { return &n }
