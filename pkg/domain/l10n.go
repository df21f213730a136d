package domain

// Localizations maps message keys to translated text.
type Localizations map[string]string

// Get returns the text for key, or fallback when the key is missing or blank.
func (l Localizations) Get(key, fallback string) string {
	if s, ok := l[key]; ok && s != "" {
		return s
	}
	return fallback
}
