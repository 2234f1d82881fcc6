package dto

// ReadyResponse hands the browser the provider's checkout page.
type ReadyResponse struct {
	BookingID   string `json:"bookingId"`
	RedirectURL string `json:"redirectUrl"`
}
