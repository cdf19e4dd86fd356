package deal

// Merge reconciles the generative and heuristic extractions. It starts
// from the heuristic record and overwrites every field the generative
// pass resolved, since the generative path is presumed higher-fidelity
// when it succeeds while the heuristic path guarantees baseline coverage.
//
// The merge is shallow: a non-nil generative Location replaces the
// heuristic Location wholesale, even when the generative side resolved
// only a city and the heuristic side also knew the state.
func Merge(generative, heuristic Record) Record {
	merged := heuristic
	if generative.PropertyType != nil {
		merged.PropertyType = generative.PropertyType
	}
	if generative.Location != nil {
		merged.Location = generative.Location
	}
	if generative.PurchasePrice != nil {
		merged.PurchasePrice = generative.PurchasePrice
	}
	if generative.AskingPrice != nil {
		merged.AskingPrice = generative.AskingPrice
	}
	if generative.NOI != nil {
		merged.NOI = generative.NOI
	}
	if generative.CapRate != nil {
		merged.CapRate = generative.CapRate
	}
	if generative.Units != nil {
		merged.Units = generative.Units
	}
	if generative.SquareFeet != nil {
		merged.SquareFeet = generative.SquareFeet
	}
	if generative.YearBuilt != nil {
		merged.YearBuilt = generative.YearBuilt
	}
	if generative.Occupancy != nil {
		merged.Occupancy = generative.Occupancy
	}
	if generative.BrokerName != nil {
		merged.BrokerName = generative.BrokerName
	}
	if generative.BrokerEmail != nil {
		merged.BrokerEmail = generative.BrokerEmail
	}
	if generative.BrokerCompany != nil {
		merged.BrokerCompany = generative.BrokerCompany
	}
	if generative.SellerName != nil {
		merged.SellerName = generative.SellerName
	}
	if generative.Notes != nil {
		merged.Notes = generative.Notes
	}
	return merged
}
