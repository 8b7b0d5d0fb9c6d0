package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listmaker/pkg/zillow"
)

func rawListing(zpid, zip string, days int) zillow.Listing {
	l := zillow.Listing{
		ZPID:             zpid,
		Price:            "$100,000",
		UnformattedPrice: 100000,
		AddressZipcode:   zip,
		Area:             1450,
		DetailURL:        "https://www.zillow.com/homedetails/" + zpid,
	}
	l.HdpData.HomeInfo = zillow.HomeInfo{
		StreetAddress: "123 Main St",
		Zipcode:       zip,
		Bedrooms:      3,
		Bathrooms:     2.5,
		DaysOnZillow:  days,
	}
	return l
}

func TestFilterByZip(t *testing.T) {
	listings := []zillow.Listing{
		rawListing("1", "71104", 5),
		rawListing("2", "71101", 5),
		rawListing("3", "71105", 5),
	}

	out := FilterByZip(listings, []string{"71101", "71103"})

	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ZPID)
	assert.Equal(t, "3", out[1].ZPID)
}

func TestFilterByZipNoExclusions(t *testing.T) {
	listings := []zillow.Listing{rawListing("1", "71104", 5)}

	out := FilterByZip(listings, nil)

	assert.Len(t, out, 1)
}

func TestFilterByDaysOnMarket(t *testing.T) {
	listings := []zillow.Listing{
		rawListing("1", "71104", 10),
		rawListing("2", "71104", 45),
		rawListing("3", "71104", 30),
	}

	out := FilterByDaysOnMarket(listings, 30)

	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ZPID)
	assert.Equal(t, "3", out[1].ZPID)

	// Zero disables the filter
	assert.Len(t, FilterByDaysOnMarket(listings, 0), 3)
}

func TestFormat(t *testing.T) {
	records := Format([]zillow.Listing{rawListing("42", "71104", 12)})

	require.Len(t, records, 1)
	r := records[0]

	assert.Equal(t, "42", r.ZPID)
	assert.Equal(t, "123 Main St", r.Address)
	assert.Equal(t, "$100,000", r.AskingPrice)
	assert.Equal(t, "$70,000", r.OfferPrice)
	assert.Equal(t, "3", r.Beds)
	assert.Equal(t, "2.5", r.Baths)
	assert.Equal(t, "1450", r.Sqft)
	assert.Equal(t, "12", r.DaysOnMarket)
	assert.Equal(t, "71104", r.Zip)
	assert.Equal(t, "https://www.zillow.com/homedetails/42", r.ListingLink)

	// Attribution fields start as the sentinel
	assert.Equal(t, NoDataFound, r.MLS)
	assert.Equal(t, NoDataFound, r.AgentName)
	assert.Equal(t, NoDataFound, r.AgentPhone)
	assert.Equal(t, NoDataFound, r.AgentEmail)
	assert.Equal(t, NoDataFound, r.AgentLicense)
}

func TestOfferPrice(t *testing.T) {
	tests := []struct {
		name   string
		asking float64
		want   string
	}{
		{"round figure", 100000, "$70,000"},
		{"small price rounds down", 133, "$93"},           // 93.1
		{"half rounds away from zero", 295, "$207"},       // 206.5
		{"grouping", 1500000, "$1,050,000"},
		{"zero", 0, "$0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OfferPrice(tt.asking))
		})
	}
}

func TestMergeAttribution(t *testing.T) {
	base := Format([]zillow.Listing{rawListing("42", "71104", 12)})[0]

	merged := MergeAttribution(base, zillow.AttributionInfo{
		AgentName:          "Jane Smith",
		AgentEmail:         "jane@example.com",
		AgentPhoneNumber:   "318-555-0101",
		BrokerPhoneNumber:  "318-555-0202",
		AgentLicenseNumber: "LIC-9",
		MLSID:              "MLS-77",
	})

	assert.Equal(t, "Jane Smith", merged.AgentName)
	assert.Equal(t, "jane@example.com", merged.AgentEmail)
	assert.Equal(t, "318-555-0101", merged.AgentPhone)
	assert.Equal(t, "LIC-9", merged.AgentLicense)
	assert.Equal(t, "MLS-77", merged.MLS)
}

func TestMergeAttributionPhoneFallsBackToBroker(t *testing.T) {
	base := Format([]zillow.Listing{rawListing("42", "71104", 12)})[0]

	merged := MergeAttribution(base, zillow.AttributionInfo{
		AgentName:         "Jane Smith",
		BrokerPhoneNumber: "318-555-0202",
	})

	assert.Equal(t, "318-555-0202", merged.AgentPhone)
}

// Name, license and MLS are overwritten even when the fetched value is
// absent, while email keeps its prior value. That asymmetry is the
// established sheet behavior, pinned here on purpose.
func TestMergeAttributionOverwritesEvenWhenAbsent(t *testing.T) {
	base := Format([]zillow.Listing{rawListing("42", "71104", 12)})[0]

	merged := MergeAttribution(base, zillow.AttributionInfo{})

	assert.Equal(t, "", merged.AgentName)
	assert.Equal(t, "", merged.AgentLicense)
	assert.Equal(t, "", merged.MLS)
	assert.Equal(t, "", merged.AgentPhone)
	assert.Equal(t, NoDataFound, merged.AgentEmail)
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, float64(1234500), ParsePrice("$1,234,500"))
	assert.Equal(t, float64(99), ParsePrice("99"))
	assert.Equal(t, float64(0), ParsePrice("no price"))
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2010, time.August, 6, 16, 47, 2, 0, time.UTC)
	assert.Equal(t, "Friday, August 06, 2010 4:47:02 PM", Timestamp(ts))
}
