package reconcile

import (
	"time"

	"cardcommand/core/utils"
)

const (
	// ProductTypeSingleCard tags products that are individual cards.
	ProductTypeSingleCard = "single_card"

	catalogSourceURL       = "https://pokemontcg.io"
	tcgPlayerProductURL    = "https://www.tcgplayer.com/product/"
	catalogConfidenceScore = 88
	catalogSourceTier      = "A"
	catalogSourceType      = "official"
)

// MapCard flattens a catalog card and its set into a ReleaseProduct.
// The catalog carries no uncertainty model, so confidence fields are fixed.
func MapCard(domain string, set Set, card Card, now time.Time) ReleaseProduct {
	name := card.Name
	if number := nonEmpty(card.Number); number != nil {
		name += " #" + *number
	}

	var buyURL *string
	if id := nonEmpty(card.TCGPlayerID); id != nil {
		buyURL = utils.Ptr(tcgPlayerProductURL + *id)
	}

	releaseDate := nonEmpty(set.ReleaseDate)

	return ReleaseProduct{
		ID:              card.ID,
		Name:            name,
		ProductType:     ProductTypeSingleCard,
		Category:        domain,
		EstimatedResale: BestPrice(card.Prices),
		ReleaseDate:     releaseDate,
		ImageURL:        firstImage(card.Images["small"], card.Images["large"], set.Images["logo"]),
		BuyURL:          buyURL,
		SourceURL:       utils.Ptr(catalogSourceURL),
		ContentsSummary: nonEmpty(card.Rarity),
		SetName:         set.Name,
		Confidence:      utils.Ptr(ConfidenceConfirmed),
		ConfidenceScore: utils.Ptr(float64(catalogConfidenceScore)),
		SourceTier:      utils.Ptr(catalogSourceTier),
		SourceType:      utils.Ptr(catalogSourceType),
		Status:          utils.Ptr(DeriveStatus(releaseDate, now)),
	}
}

// BestPrice returns the resale estimate from an ordered quote list.
// The first quote with a market, mid or low price wins; within it market beats mid beats low.
func BestPrice(quotes []PriceQuote) *float64 {
	for _, q := range quotes {
		switch {
		case q.Market != nil:
			return utils.Ptr(*q.Market)
		case q.Mid != nil:
			return utils.Ptr(*q.Mid)
		case q.Low != nil:
			return utils.Ptr(*q.Low)
		}
	}
	return nil
}

// DeriveStatus maps a set release date to a lifecycle status.
// An unparseable date is treated as not yet released.
func DeriveStatus(releaseDate *string, now time.Time) string {
	if releaseDate == nil || *releaseDate == "" {
		return StatusAnnounced
	}
	t, ok := utils.ParseTime(*releaseDate)
	if ok && !t.After(now) {
		return StatusReleased
	}
	return StatusOfficial
}

// WithinDateWindow reports whether a release date falls inside [from, to].
// Missing or unparseable dates are kept, and a bound that does not parse is ignored.
func WithinDateWindow(date *string, from, to string) bool {
	if date == nil {
		return true
	}
	value, ok := utils.ParseTime(*date)
	if !ok {
		return true
	}
	if lo, ok := utils.ParseTime(from); ok && value.Before(lo) {
		return false
	}
	if hi, ok := utils.ParseTime(to); ok && value.After(hi) {
		return false
	}
	return true
}

// MergeAsOf returns the latest parseable timestamp, or nil if there is none.
func MergeAsOf(values ...string) *time.Time {
	var latest *time.Time
	for _, v := range values {
		t, ok := utils.ParseTime(v)
		if !ok {
			continue
		}
		if latest == nil || t.After(*latest) {
			latest = utils.Ptr(t)
		}
	}
	return latest
}

func firstImage(candidates ...string) *string {
	for _, c := range candidates {
		if c != "" {
			return utils.Ptr(c)
		}
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
