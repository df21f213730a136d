package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// section is one field group with its own save.
type section struct {
	key   string
	title string
	form  form
}

// saveSectionMsg asks the page to send a section to the server.
type saveSectionMsg struct {
	key  string
	form form
}

// sectionsModel stacks field-group forms. Each saves on its own, so a save
// sends only the fields of that group.
type sectionsModel struct {
	sections []section
	cursor   int
	editing  bool
	saving   string
	notice   string
}

func newSectionsModel(sections ...section) sectionsModel {
	return sectionsModel{sections: sections}
}

// sync replaces the forms with fresh ones built from the loaded entity.
// Forms with unsaved edits are kept unless their key is force.
func (m sectionsModel) sync(fresh []section, force string) sectionsModel {
	old := make(map[string]section, len(m.sections))
	for _, s := range m.sections {
		old[s.key] = s
	}
	for i, s := range fresh {
		prev, ok := old[s.key]
		if ok && s.key != force && prev.form.dirty() {
			fresh[i].form = prev.form
		}
	}
	m.sections = fresh
	if m.saving == force {
		m.saving = ""
	}
	if m.cursor >= len(m.sections) {
		m.cursor = max(len(m.sections)-1, 0)
	}
	return m
}

func (m sectionsModel) done(key string) sectionsModel {
	if m.saving == key {
		m.saving = ""
	}
	return m
}

func (m sectionsModel) Update(msg tea.Msg, lookups Lookups) (sectionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case validateTickMsg, validatedMsg:
		var cmds []tea.Cmd
		for i := range m.sections {
			var cmd tea.Cmd
			m.sections[i].form, cmd = m.sections[i].form.update(msg, lookups)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if len(m.sections) == 0 {
			return m, nil
		}
		m.notice = ""
		cur := &m.sections[m.cursor]
		if m.editing {
			switch msg.String() {
			case "esc":
				m.editing = false
				return m, nil
			case "ctrl+s":
				m.editing = false
				return m.save()
			case "ctrl+r":
				cur.form = cur.form.revert()
				return m, nil
			}
			var cmd tea.Cmd
			cur.form, cmd = cur.form.update(msg, lookups)
			return m, cmd
		}

		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.sections)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter", "e":
			m.editing = true
		case "s", "ctrl+s":
			return m.save()
		case "r":
			cur.form = cur.form.revert()
		}
	}
	return m, nil
}

func (m sectionsModel) save() (sectionsModel, tea.Cmd) {
	cur := m.sections[m.cursor]
	if m.saving != "" {
		m.notice = "saving " + m.saving + "…"
		return m, nil
	}
	if !cur.form.dirty() {
		m.notice = "nothing to save"
		return m, nil
	}
	if err := cur.form.ready(); err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.saving = cur.key
	key, f := cur.key, cur.form
	return m, func() tea.Msg { return saveSectionMsg{key: key, form: f} }
}

func (m sectionsModel) helpKeys() string {
	if m.editing {
		return helpBar("tab", "next", "ctrl+s", "save", "ctrl+r", "revert", "esc", "done")
	}
	return helpBar("j/k", "section", "enter", "edit", "s", "save", "r", "revert")
}

func (m sectionsModel) View() string {
	var b strings.Builder
	for i, s := range m.sections {
		marker := "  "
		title := sectionHeaderStyle.Render(s.title)
		if i == m.cursor {
			marker = accentStyle.Render("▌ ")
		}
		switch {
		case m.saving == s.key:
			title += "  " + dimStyle.Render("saving…")
		case s.form.dirty():
			title += "  " + ifNeedBeStyle.Render("unsaved")
		}
		b.WriteString(marker + title + "\n")
		b.WriteString(indent(s.form.View(m.editing && i == m.cursor), "  "))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(" " + dimStyle.Render(m.notice) + "\n")
	}
	return b.String()
}
