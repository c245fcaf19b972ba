package domain

// AddressComponents are the parts of a geocoded address. Only Name, Address
// and ShortAddress are always present.
type AddressComponents struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	ShortAddress string `json:"short_address"`
	AddressLine1 string `json:"address_line1,omitempty"`
	City         string `json:"city,omitempty"`
	Region       string `json:"region,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
	Country      string `json:"country,omitempty"`
}

// PlaceSuggestion is an address autocomplete result.
type PlaceSuggestion struct {
	ID         string            `json:"id"`
	Location   Coordinate        `json:"location"`
	Components AddressComponents `json:"components"`
}
