package pipeline

// The numbered milestones sent over the channel, in pipeline order.
// The client renders these verbatim, so the wording is part of the
// protocol.
const (
	msgAuthenticating = "1. Authenticating google sheet."
	msgFetching       = "2. Fetching Zillow listings for the specified URL."
	msgFilterZip      = "3. Filtering listings by zip code."
	msgFilterDays     = "4. Filtering listings by days on market."
	msgDedupe         = "5. Filtering out listings that already exist using ZPID numbers."
	msgReformat       = "6. Reformatting listings into the shape they need to be for the google sheet."
	msgEnrich         = "7. Updating listings with additional data."
	msgRemoveStale    = "8. Removing outdated listings from the google sheet."
	msgAppend         = "9. Updating the google sheet with listings."
	msgTimestamp      = "10. Updating the timestamp in the google sheet."
)

// Terminal messages the client keys its UI state off
const (
	// MsgCompleted is sent when a run finishes successfully
	MsgCompleted = "List-making completed successfully."

	// MsgInternalError is the generic failure message of last resort
	MsgInternalError = "Internal Server Error"

	// MsgNoListings is sent when pagination yields nothing to work with
	MsgNoListings = "No listings - closing down. Please try again later."
)
