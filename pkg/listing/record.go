// Package listing holds the sheet-ready record schema and the pure
// filter/reshape stages that produce it from raw search results.
package listing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"listmaker/pkg/zillow"
)

// NoDataFound is the placeholder for attribution fields until enrichment
// fills them in.
const NoDataFound = "No data found"

// offerPriceRatio is the fraction of asking price offered
const offerPriceRatio = 0.7

// timestampLayout renders like "Friday, August 06, 2010 4:47:02 PM"
const timestampLayout = "Monday, January 02, 2006 3:04:05 PM"

var usd = message.NewPrinter(language.AmericanEnglish)

// Record is one sheet row in the making. All values are display strings
// because the sheet stores them that way.
type Record struct {
	ZPID         string
	Address      string
	AskingPrice  string
	OfferPrice   string
	Beds         string
	Baths        string
	Sqft         string
	DaysOnMarket string
	ListingLink  string
	Zip          string
	MLS          string
	AgentName    string
	AgentPhone   string
	AgentEmail   string
	AgentLicense string
	Highlight    bool
}

// FilterByZip removes listings whose zip code is in the exclusion set.
// Order-preserving, no side effects.
func FilterByZip(listings []zillow.Listing, excluded []string) []zillow.Listing {
	if len(excluded) == 0 {
		return listings
	}

	excludedSet := make(map[string]struct{}, len(excluded))
	for _, zip := range excluded {
		excludedSet[zip] = struct{}{}
	}

	out := make([]zillow.Listing, 0, len(listings))
	for _, l := range listings {
		if _, ok := excludedSet[l.AddressZipcode]; !ok {
			out = append(out, l)
		}
	}
	return out
}

// FilterByDaysOnMarket removes listings older than max days on market.
// max <= 0 disables the filter.
func FilterByDaysOnMarket(listings []zillow.Listing, max int) []zillow.Listing {
	if max <= 0 {
		return listings
	}

	out := make([]zillow.Listing, 0, len(listings))
	for _, l := range listings {
		if l.HdpData.HomeInfo.DaysOnZillow <= max {
			out = append(out, l)
		}
	}
	return out
}

// Format reshapes raw listings into sheet-ready records. Attribution
// fields start as the NoDataFound sentinel; enrichment overwrites them.
func Format(listings []zillow.Listing) []Record {
	records := make([]Record, 0, len(listings))
	for _, l := range listings {
		home := l.HdpData.HomeInfo
		records = append(records, Record{
			ZPID:         l.ZPID,
			Address:      home.StreetAddress,
			AskingPrice:  l.Price,
			OfferPrice:   OfferPrice(l.UnformattedPrice),
			Beds:         formatCount(home.Bedrooms),
			Baths:        formatCount(home.Bathrooms),
			Sqft:         formatCount(l.Area),
			DaysOnMarket: strconv.Itoa(home.DaysOnZillow),
			ListingLink:  l.DetailURL,
			Zip:          l.AddressZipcode,
			MLS:          NoDataFound,
			AgentName:    NoDataFound,
			AgentPhone:   NoDataFound,
			AgentEmail:   NoDataFound,
			AgentLicense: NoDataFound,
			Highlight:    home.ShouldHighlight,
		})
	}
	return records
}

// OfferPrice renders 70% of the asking price as whole-dollar USD.
// Rounding is half away from zero (math.Round): $133 asking yields
// 93.1 which rounds to "$93".
func OfferPrice(askingPrice float64) string {
	return usd.Sprintf("$%d", int64(math.Round(askingPrice*offerPriceRatio)))
}

// MergeAttribution applies the enrichment merge policy: email keeps the
// existing value when the fetched one is absent, phone falls back to the
// broker number, and name/license/MLS are overwritten unconditionally
// even when absent.
func MergeAttribution(r Record, attr zillow.AttributionInfo) Record {
	if attr.AgentEmail != "" {
		r.AgentEmail = attr.AgentEmail
	}

	phone := attr.AgentPhoneNumber
	if phone == "" {
		phone = attr.BrokerPhoneNumber
	}
	r.AgentPhone = phone

	r.AgentName = attr.AgentName
	r.AgentLicense = attr.AgentLicenseNumber
	r.MLS = attr.MLSID

	return r
}

// ParsePrice extracts the numeric value from a formatted price string
// like "$1,234,500". Returns 0 for strings with no digits.
func ParsePrice(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// Timestamp renders the sheet timestamp in the fixed human-readable form
func Timestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// formatCount renders a numeric attribute the way the sheet displays it:
// whole numbers without a decimal point, halves and the like kept.
func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
