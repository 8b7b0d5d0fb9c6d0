package sheets

import (
	"fmt"
	"sort"

	"listmaker/pkg/listing"
)

// rowWidth is the number of columns one listing row occupies
const rowWidth = 14

// BuildRows converts records into sheet row values. Highlighted records
// come first, then a blank separator row, then the rest; both groups are
// sorted ascending by asking price. The column order is a compatibility
// contract with the existing sheet layout and must not change.
func BuildRows(records []listing.Record) [][]interface{} {
	var highlighted, regular []listing.Record
	for _, r := range records {
		if r.Highlight {
			highlighted = append(highlighted, r)
		} else {
			regular = append(regular, r)
		}
	}

	byAskingPrice := func(group []listing.Record) func(i, j int) bool {
		return func(i, j int) bool {
			return listing.ParsePrice(group[i].AskingPrice) < listing.ParsePrice(group[j].AskingPrice)
		}
	}
	sort.SliceStable(highlighted, byAskingPrice(highlighted))
	sort.SliceStable(regular, byAskingPrice(regular))

	rows := make([][]interface{}, 0, len(records)+1)
	for _, r := range highlighted {
		rows = append(rows, rowValues(r))
	}
	if len(highlighted) > 0 && len(regular) > 0 {
		rows = append(rows, blankRow())
	}
	for _, r := range regular {
		rows = append(rows, rowValues(r))
	}

	return rows
}

// rowValues lays out one record in the fixed column order:
// price, offer price, beds, baths, sqft, days on market, linked address,
// zip, MLS, agent name, agent phone, agent email, license, identifier.
func rowValues(r listing.Record) []interface{} {
	return []interface{}{
		r.AskingPrice,
		r.OfferPrice,
		r.Beds,
		r.Baths,
		r.Sqft,
		r.DaysOnMarket,
		fmt.Sprintf(`=HYPERLINK(%q, %q)`, r.ListingLink, r.Address),
		r.Zip,
		r.MLS,
		r.AgentName,
		r.AgentPhone,
		r.AgentEmail,
		r.AgentLicense,
		r.ZPID,
	}
}

func blankRow() []interface{} {
	row := make([]interface{}, rowWidth)
	for i := range row {
		row[i] = ""
	}
	return row
}
