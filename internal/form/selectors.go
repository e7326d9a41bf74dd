package form

import "github.com/splitleasesharath/emergency-report/internal/domain"

const ReservationPlaceholder = "Search for Bookings"

type ReservationOption struct {
	ID       string
	Label    string
	Selected bool
}

// ReservationOptions lists bookings by listing name, flagging the selected one.
func ReservationOptions(bookings []domain.Booking, selected *domain.Booking) []ReservationOption {
	out := make([]ReservationOption, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, ReservationOption{
			ID:       b.ID,
			Label:    b.ListingName,
			Selected: selected != nil && selected.ID == b.ID,
		})
	}
	return out
}

// ReservationLabel is what the closed selector shows.
func ReservationLabel(selected *domain.Booking) string {
	if selected == nil || selected.ListingName == "" {
		return ReservationPlaceholder
	}
	return selected.ListingName
}
