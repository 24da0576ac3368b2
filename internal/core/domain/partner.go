package domain

type Partner struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	IsAvailable bool   `json:"isAvailable"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlaceholderLocation is sent with a booking confirmation when the partner's
// live location is unknown.
var PlaceholderLocation = Location{}
