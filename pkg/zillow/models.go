package zillow

// Listing is a single search result as returned by the listings endpoint.
// Only the fields the pipeline consumes are mapped.
type Listing struct {
	ZPID             string  `json:"zpid"`
	Price            string  `json:"price"`
	UnformattedPrice float64 `json:"unformattedPrice"`
	AddressZipcode   string  `json:"addressZipcode"`
	Area             float64 `json:"area"`
	DetailURL        string  `json:"detailUrl"`
	HdpData          HdpData `json:"hdpData"`
}

// HdpData wraps the nested home details blob
type HdpData struct {
	HomeInfo HomeInfo `json:"homeInfo"`
}

// HomeInfo carries the physical attributes of a listing
type HomeInfo struct {
	StreetAddress   string  `json:"streetAddress"`
	Zipcode         string  `json:"zipcode"`
	Bedrooms        float64 `json:"bedrooms"`
	Bathrooms       float64 `json:"bathrooms"`
	DaysOnZillow    int     `json:"daysOnZillow"`
	ShouldHighlight bool    `json:"shouldHighlight"`
}

// Page is one normalized slice of the paginated result set
type Page struct {
	Listings    []Listing
	CurrentPage int
	TotalPages  int
}

// AttributionInfo holds the agent/brokerage fields returned by the
// property endpoint
type AttributionInfo struct {
	AgentName          string `json:"agentName"`
	AgentEmail         string `json:"agentEmail"`
	AgentPhoneNumber   string `json:"agentPhoneNumber"`
	BrokerPhoneNumber  string `json:"brokerPhoneNumber"`
	AgentLicenseNumber string `json:"agentLicenseNumber"`
	MLSID              string `json:"mlsId"`
}

// listingsEnvelope is the wire shape of the listings endpoint response
type listingsEnvelope struct {
	IsSuccess bool   `json:"is_success"`
	Message   string `json:"message"`
	Data      struct {
		Cat1 struct {
			SearchResults struct {
				ListResults []Listing `json:"listResults"`
			} `json:"searchResults"`
			SearchList struct {
				TotalPages int `json:"totalPages"`
			} `json:"searchList"`
		} `json:"cat1"`
	} `json:"data"`
}

// propertyEnvelope is the wire shape of the property endpoint response
type propertyEnvelope struct {
	IsSuccess bool   `json:"is_success"`
	Message   string `json:"message"`
	Data      struct {
		AttributionInfo AttributionInfo `json:"attributionInfo"`
	} `json:"data"`
}
