package components

import (
	"time"

	"github.com/splitleasesharath/emergency-report/internal/domain"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// DemoBookings are the bookings every demo session can report against.
func DemoBookings() []domain.Booking {
	return []domain.Booking{
		{ID: "1", ListingName: "Cozy Downtown Apartment", ListingID: "listing-1", CheckIn: day(2024, time.January, 15), CheckOut: day(2024, time.January, 20)},
		{ID: "2", ListingName: "Beachfront Villa", ListingID: "listing-2", CheckIn: day(2024, time.February, 1), CheckOut: day(2024, time.February, 7)},
		{ID: "3", ListingName: "Mountain Retreat Cabin", ListingID: "listing-3", CheckIn: day(2024, time.March, 10), CheckOut: day(2024, time.March, 15)},
	}
}
