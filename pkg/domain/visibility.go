package domain

// Visibility controls who may see and answer an election or event.
type Visibility string

const (
	VisibilityPublic    Visibility = "Public"
	VisibilityProtected Visibility = "Protected"
	VisibilityPrivate   Visibility = "Private"
)

// Visibilities lists every visibility in settings order.
var Visibilities = []Visibility{VisibilityPublic, VisibilityProtected, VisibilityPrivate}

// ValidVisibility returns true if v is a known visibility.
func ValidVisibility(v Visibility) bool {
	switch v {
	case VisibilityPublic, VisibilityProtected, VisibilityPrivate:
		return true
	}
	return false
}

// AcceptsResponses reports whether voters and guests may still submit.
func (v Visibility) AcceptsResponses() bool {
	return v == VisibilityPublic
}

// Label is the short description shown next to the visibility in settings.
func (v Visibility) Label() string {
	switch v {
	case VisibilityPublic:
		return "read/write"
	case VisibilityProtected:
		return "read-only"
	case VisibilityPrivate:
		return "hidden"
	default:
		return string(v)
	}
}
