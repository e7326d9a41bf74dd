package domain

// EmergencyFormData is the form-local candidate. It lives from form mount until the
// first successful submit.
type EmergencyFormData struct {
	Reservation   *Booking      `json:"reservation"`
	EmergencyType EmergencyType `json:"emergencyType" validate:"required,emergency_type"`
	Description   string        `json:"description" validate:"min=10,max=1000"`
	Photo1        File          `json:"photo1"`
	Photo2        File          `json:"photo2"`
}

// EmergencyReport is the submission payload.
type EmergencyReport struct {
	ReservationID string        `json:"reservationId"`
	EmergencyType EmergencyType `json:"emergencyType"`
	Description   string        `json:"description"`
	Photos        []File        `json:"-"`
}

// ToReport collapses the reservation to its ID and compacts the two photo slots,
// photo1 first.
func (d EmergencyFormData) ToReport() EmergencyReport {
	r := EmergencyReport{
		EmergencyType: d.EmergencyType,
		Description:   d.Description,
		Photos:        make([]File, 0, 2),
	}
	if d.Reservation != nil {
		r.ReservationID = d.Reservation.ID
	}
	for _, p := range []File{d.Photo1, d.Photo2} {
		if Present(p) {
			r.Photos = append(r.Photos, p)
		}
	}
	return r
}
