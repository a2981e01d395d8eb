package performance

import "time"

// marketLocation returns America/New_York, falling back to fixed EST if tzdata is missing.
func marketLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*3600)
	}
	return loc
}

// MarketClock reports the current time in the market's zone; relative windows
// are anchored on its calendar date.
func MarketClock() time.Time {
	return time.Now().In(marketLocation())
}
