package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/squeng/fixadat/pkg/domain"
)

// chromeLines is what the page frame takes: header(2) + tabs(1) + banner(1) + help(1).
const chromeLines = 5

func centered(width int, s string) string {
	pad := max((width-lipgloss.Width(s))/2, 0)
	return strings.Repeat(" ", pad) + s
}

// header renders the two header lines: product and title, then a meta line.
func header(width int, product, title, meta string) string {
	top := titleStyle.Render(product)
	if title != "" {
		top += metaStyle.Render(" · ") + selectedStyle.Render(truncStr(title, max(width-len(product)-6, 10)))
	}
	return centered(width, top) + "\n" + centered(width, metaStyle.Render(meta))
}

// frame stacks the page parts, clipping the body to what the terminal fits.
func frame(height int, head, tabs, body string, b banner, help string) string {
	if height > 0 {
		body = clipLines(body, height-chromeLines)
	}
	body = strings.TrimRight(body, "\n")
	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", head, tabs, body, b.View(), help)
}

// terminalView is the body of a page that has nothing to show.
func terminalView(deps Deps, state domain.LoadState, status int, err error) string {
	var title, detail string
	switch state {
	case domain.LoadMissingToken:
		title = deps.l10n("page.missingToken", "Dude, where's my token?!")
		detail = deps.l10n("page.missingToken.detail", "The link you opened has no access token after the #.")
	case domain.LoadPending:
		title = deps.l10n("page.loading", "Loading…")
	case domain.LoadFailed:
		if status != 0 {
			title = domain.StatusTitle(status)
			switch status {
			case 403:
				detail = deps.l10n("page.forbidden", "This link does not give access to the page.")
			case 404:
				detail = deps.l10n("page.notFound", "There is no such page, or it has been deleted.")
			case 410:
				detail = deps.l10n("page.gone", "This page has expired.")
			}
		} else {
			title = deps.l10n("page.unreachable", "Cannot reach the server")
			if err != nil {
				detail = err.Error()
			}
		}
	default:
		return ""
	}
	out := "\n\n " + titleStyle.Render(title) + "\n"
	if detail != "" {
		out += "\n " + dimStyle.Render(detail) + "\n"
	}
	return out
}

func visibilityOptions() []string {
	out := make([]string, len(domain.Visibilities))
	for i, v := range domain.Visibilities {
		out[i] = string(v)
	}
	return out
}

func descriptionView(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(" " + normalStyle.Render(l) + "\n")
	}
	return b.String()
}
