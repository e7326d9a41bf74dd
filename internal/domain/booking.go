package domain

import "time"

// Booking is a reservation the host hands to the modal. The modal never fetches or
// mutates bookings.
type Booking struct {
	ID          string    `json:"id"`
	ListingName string    `json:"listingName"`
	ListingID   string    `json:"listingId"`
	CheckIn     time.Time `json:"checkIn"`
	CheckOut    time.Time `json:"checkOut"`
}

func FindBooking(bookings []Booking, id string) (Booking, bool) {
	for _, b := range bookings {
		if b.ID == id {
			return b, true
		}
	}
	return Booking{}, false
}
