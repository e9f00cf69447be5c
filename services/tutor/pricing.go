package tutor

import courseModels "learnhub/models/course"

// DemandLevel classifies a discount: under 70% of the base price is high
// demand, under 90% medium, anything else low. It is nil when either price is
// missing or the base price is not positive.
func DemandLevel(basePrice, currentPrice *float64) *string {
	if basePrice == nil || currentPrice == nil || *basePrice <= 0 {
		return nil
	}
	ratio := *currentPrice / *basePrice
	level := courseModels.DemandLow
	switch {
	case ratio < 0.7:
		level = courseModels.DemandHigh
	case ratio < 0.9:
		level = courseModels.DemandMedium
	}
	return &level
}
