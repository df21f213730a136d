package domain

// IsOrganizer reports whether the fragment token opens the organizer view.
// The result only gates what the page offers; the server checks every request.
func IsOrganizer(fragmentToken, organizerToken string) bool {
	return fragmentToken != "" && fragmentToken == organizerToken
}

// LoadState is where a page is in loading its aggregate.
type LoadState int

const (
	LoadMissingToken LoadState = iota
	LoadPending
	LoadReady
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadMissingToken:
		return "missing token"
	case LoadPending:
		return "loading"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ResolveLoad maps the outcome of a page load to its state. status is the HTTP
// status of a failed load, or 0 when the request never got an answer.
func ResolveLoad(token string, err error) (state LoadState, status int) {
	if token == "" {
		return LoadMissingToken, 0
	}
	if err == nil {
		return LoadReady, 0
	}
	if code, ok := StatusOf(err); ok {
		return LoadFailed, code
	}
	return LoadFailed, 0
}
