package tui

type bannerKind int

const (
	bannerNone bannerKind = iota
	bannerInfo
	bannerError
)

// banner is the one-line status shown above the help bar. It stays until the
// next key press.
type banner struct {
	kind bannerKind
	text string
}

func infoBanner(text string) banner  { return banner{kind: bannerInfo, text: text} }
func errorBanner(text string) banner { return banner{kind: bannerError, text: text} }

func (b banner) View() string {
	switch b.kind {
	case bannerInfo:
		return " " + accentStyle.Render(b.text)
	case bannerError:
		return " " + errorStyle.Render(b.text)
	default:
		return ""
	}
}
