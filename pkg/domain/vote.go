package domain

// Availability is a voter's stance on one candidate.
type Availability string

const (
	AvailabilityNo       Availability = "No"
	AvailabilityIfNeedBe Availability = "IfNeedBe"
	AvailabilityYes      Availability = "Yes"
)

// Availabilities lists every availability in ballot order.
var Availabilities = []Availability{AvailabilityNo, AvailabilityIfNeedBe, AvailabilityYes}

// ValidAvailability returns true if a is a known availability.
func ValidAvailability(a Availability) bool {
	switch a {
	case AvailabilityNo, AvailabilityIfNeedBe, AvailabilityYes:
		return true
	}
	return false
}

// Next cycles No → IfNeedBe → Yes → No.
func (a Availability) Next() Availability {
	switch a {
	case AvailabilityNo:
		return AvailabilityIfNeedBe
	case AvailabilityIfNeedBe:
		return AvailabilityYes
	default:
		return AvailabilityNo
	}
}

// Vote is one respondent's ballot. Availability is keyed by candidate minute key.
type Vote struct {
	Name         string                  `json:"name"`
	Voted        Timestamp               `json:"voted"`
	Availability map[string]Availability `json:"availability"`
}

// For returns the stance on candidate, looked up by its minute key.
func (v Vote) For(candidate string) (Availability, bool) {
	a, ok := v.Availability[CandidateKey(candidate)]
	return a, ok
}

// DefaultAvailability builds an availability map for candidates with every entry set to No.
func DefaultAvailability(candidates []string) map[string]Availability {
	b := make(map[string]Availability, len(candidates))
	for _, c := range candidates {
		b[CandidateKey(c)] = AvailabilityNo
	}
	return b
}

// Ballot is the body of a cast vote.
type Ballot struct {
	Name         string                  `json:"name"`
	TimeZone     string                  `json:"timeZone,omitempty"`
	Availability map[string]Availability `json:"availability"`
}
