package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"

	"github.com/squeng/fixadat/pkg/client"
)

// validationDelay is how long typing must pause before input is sent to the
// server for checking.
const validationDelay = 500 * time.Millisecond

var localChecks = validator.New()

// localTags are checked before a value goes to the server. Phone numbers
// have no local check since the server accepts national formats.
var localTags = map[client.ValidationKind]string{
	client.ValidateEmailAddress: "email",
	client.ValidateURL:          "http_url",
}

type fieldKind int

const (
	textField fieldKind = iota
	multilineField
	toggleField
	choiceField
)

type formField struct {
	label       string
	kind        fieldKind
	value       string
	initial     string
	options     []string
	required    bool
	placeholder string

	check    client.ValidationKind
	seq      int
	checking bool
	invalid  bool
}

func (f formField) limit() int {
	if f.kind == multilineField {
		return textLimit
	}
	return lineLimit
}

// form is a column of labelled inputs. Fields with a check are validated by
// the server once typing pauses.
type form struct {
	id     string
	fields []formField
	focus  int
}

type validateTickMsg struct {
	form  string
	field int
	seq   int
}

type validatedMsg struct {
	form  string
	field int
	seq   int
	valid bool
	err   error
}

func newForm(id string, fields ...formField) form {
	for i := range fields {
		fields[i].initial = fields[i].value
		fields[i].invalid = !locallyValid(fields[i].check, fields[i].value)
	}
	return form{id: id, fields: fields}
}

func (f form) value(i int) string { return strings.TrimSpace(f.fields[i].value) }

func (f form) on(i int) bool { return f.fields[i].value == "true" }

// dirty reports whether any field differs from what the form was built with.
func (f form) dirty() bool {
	for _, fld := range f.fields {
		if fld.value != fld.initial {
			return true
		}
	}
	return false
}

// ready reports why the form cannot be saved yet, or nil.
func (f form) ready() error {
	for _, fld := range f.fields {
		switch {
		case fld.required && strings.TrimSpace(fld.value) == "":
			return fmt.Errorf("%s is required", fld.label)
		case fld.checking:
			return fmt.Errorf("still checking %s", fld.label)
		case fld.invalid:
			return fmt.Errorf("%s is not valid", fld.label)
		}
	}
	return nil
}

func (f form) revert() form {
	for i := range f.fields {
		f.fields[i].value = f.fields[i].initial
		f.fields[i].checking = false
		f.fields[i].invalid = !locallyValid(f.fields[i].check, f.fields[i].value)
	}
	return f
}

// update handles keys while the form has focus, and the validation
// messages addressed to it at any time.
func (f form) update(msg tea.Msg, lookups Lookups) (form, tea.Cmd) {
	switch msg := msg.(type) {
	case validateTickMsg:
		if msg.form != f.id || msg.field >= len(f.fields) || f.fields[msg.field].seq != msg.seq {
			return f, nil
		}
		fld := f.fields[msg.field]
		if lookups == nil {
			f.fields[msg.field].checking = false
			return f, nil
		}
		id, field, seq, kind, value := f.id, msg.field, msg.seq, fld.check, strings.TrimSpace(fld.value)
		return f, func() tea.Msg {
			v, err := lookups.Validate(context.Background(), kind, value)
			return validatedMsg{form: id, field: field, seq: seq, valid: v.Valid, err: err}
		}

	case validatedMsg:
		if msg.form != f.id || msg.field >= len(f.fields) || f.fields[msg.field].seq != msg.seq {
			return f, nil
		}
		f.fields[msg.field].checking = false
		if msg.err == nil {
			f.fields[msg.field].invalid = !msg.valid
		}
		return f, nil

	case tea.KeyMsg:
		return f.updateKeys(msg)
	}
	return f, nil
}

func (f form) updateKeys(msg tea.KeyMsg) (form, tea.Cmd) {
	if len(f.fields) == 0 {
		return f, nil
	}
	fld := &f.fields[f.focus]
	before := fld.value

	switch msg.String() {
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.fields)
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	case "enter":
		switch fld.kind {
		case multilineField:
			fld.value = appendText(fld.value, "\n", fld.limit())
		case toggleField:
			fld.value = boolValue(fld.value != "true")
		case choiceField:
			fld.value = cycle(fld.options, fld.value, 1)
		default:
			f.focus = (f.focus + 1) % len(f.fields)
		}
	case " ":
		switch fld.kind {
		case toggleField:
			fld.value = boolValue(fld.value != "true")
		case choiceField:
			fld.value = cycle(fld.options, fld.value, 1)
		default:
			fld.value = edit(fld.value, msg, fld.limit())
		}
	case "left", "right":
		if fld.kind == choiceField {
			step := 1
			if msg.String() == "left" {
				step = -1
			}
			fld.value = cycle(fld.options, fld.value, step)
		}
	case "backspace":
		if fld.kind == textField || fld.kind == multilineField {
			fld.value = edit(fld.value, msg, fld.limit())
		}
	default:
		if fld.kind == textField || fld.kind == multilineField {
			fld.value = edit(fld.value, msg, fld.limit())
		}
	}

	if fld.value != before && fld.check != "" {
		return f, f.schedule(f.focus)
	}
	return f, nil
}

// schedule restarts the validation delay for field i. Only the latest
// keystroke's tick survives the sequence check.
func (f *form) schedule(i int) tea.Cmd {
	fld := &f.fields[i]
	fld.seq++
	value := strings.TrimSpace(fld.value)
	if value == "" {
		fld.checking, fld.invalid = false, false
		return nil
	}
	if !locallyValid(fld.check, value) {
		fld.checking, fld.invalid = false, true
		return nil
	}
	fld.checking, fld.invalid = true, false
	id, seq := f.id, fld.seq
	return tea.Tick(validationDelay, func(time.Time) tea.Msg {
		return validateTickMsg{form: id, field: i, seq: seq}
	})
}

func locallyValid(kind client.ValidationKind, value string) bool {
	tag, ok := localTags[kind]
	if !ok || strings.TrimSpace(value) == "" {
		return true
	}
	return localChecks.Var(strings.TrimSpace(value), tag) == nil
}

func cycle(options []string, current string, step int) string {
	if len(options) == 0 {
		return current
	}
	idx := -1
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return options[0]
	}
	return options[(idx+step+len(options))%len(options)]
}

// View renders the fields. The focused field gets a cursor when active.
func (f form) View(active bool) string {
	var b strings.Builder
	for i, fld := range f.fields {
		cursor := " "
		style := metaStyle
		if active && i == f.focus {
			cursor = ">"
			style = selectedStyle
		}

		var value string
		switch fld.kind {
		case toggleField:
			if fld.value == "true" {
				value = accentStyle.Render("[x]")
			} else {
				value = dimStyle.Render("[ ]")
			}
		case choiceField:
			value = "‹ " + normalStyle.Render(fld.value) + " ›"
		default:
			switch {
			case fld.value == "" && !(active && i == f.focus):
				value = inputPlaceholderStyle.Render(fld.placeholder)
			default:
				value = normalStyle.Render(strings.ReplaceAll(fld.value, "\n", "\n     "))
			}
			if active && i == f.focus {
				value += "█"
			}
		}

		status := ""
		switch {
		case fld.checking:
			status = "  " + dimStyle.Render("checking…")
		case fld.invalid:
			status = "  " + errorStyle.Render("not valid")
		}
		fmt.Fprintf(&b, "%s %s: %s%s\n", cursor, style.Render(fld.label), value, status)
	}
	return b.String()
}
