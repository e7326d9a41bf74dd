package domain

type EmergencyType string

const (
	EmergencyTypeNone       EmergencyType = ""
	EmergencyBurstWaterPipe EmergencyType = "burst-water-pipe"
	EmergencyInjuryToGuest  EmergencyType = "injury-to-guest"
	EmergencyPartyAtListing EmergencyType = "party-at-listing"
)

const EmergencyTypePlaceholder = "Type of emergency"

var emergencyTypeLabels = []EmergencyTypeOption{
	{Value: EmergencyBurstWaterPipe, Label: "Burst water pipe"},
	{Value: EmergencyInjuryToGuest, Label: "Injury to guest"},
	{Value: EmergencyPartyAtListing, Label: "Party at my listing!"},
}

// Valid reports whether t is one of the three reportable categories.
// EmergencyTypeNone is not valid.
func (t EmergencyType) Valid() bool {
	switch t {
	case EmergencyBurstWaterPipe, EmergencyInjuryToGuest, EmergencyPartyAtListing:
		return true
	}
	return false
}

func (t EmergencyType) Label() string {
	for _, o := range emergencyTypeLabels {
		if o.Value == t {
			return o.Label
		}
	}
	return EmergencyTypePlaceholder
}

type EmergencyTypeOption struct {
	Value EmergencyType `json:"value"`
	Label string        `json:"label"`
}

// EmergencyTypeOptions returns the selectable categories in display order.
func EmergencyTypeOptions() []EmergencyTypeOption {
	out := make([]EmergencyTypeOption, len(emergencyTypeLabels))
	copy(out, emergencyTypeLabels)
	return out
}
