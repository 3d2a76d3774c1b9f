package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cerridwen-io/babyrs/internal/event"
)

// timestampLayout is the human-entered form of occurred-at times.
// Entered and displayed in local time.
const timestampLayout = "2006-01-02 15:04"

// Field names bound into forms. Every kind gets when and notes; the
// rest depend on the kind.
const (
	fieldWhen     = "when"
	fieldSource   = "source"
	fieldQuantity = "quantity_ml"
	fieldMinutes  = "minutes"
	fieldUrine    = "urine"
	fieldStool    = "stool"
	fieldNotes    = "notes"
)

type formField struct {
	name  string
	label string
	input textinput.Model
}

// form is a kind-bound set of text inputs plus an inline error line.
//
// baseWhen/baseWhenText keep the prefilled timestamp alongside its
// rendered text. The layout carries minute precision only, so an
// untouched when field must round-trip to the original instant
// instead of being re-parsed from the truncated text.
type form struct {
	kind   event.Kind
	fields []formField
	focus  int
	errMsg string

	baseWhen     time.Time
	baseWhenText string
}

// fieldNamesFor returns the editable fields for a kind, in render
// order. The switch is exhaustive over the closed kind set.
func fieldNamesFor(kind event.Kind) []string {
	switch kind {
	case event.KindFeeding:
		return []string{fieldWhen, fieldSource, fieldQuantity, fieldMinutes, fieldNotes}
	case event.KindDiaperChange:
		return []string{fieldWhen, fieldUrine, fieldStool, fieldNotes}
	case event.KindSleep:
		return []string{fieldWhen, fieldMinutes, fieldNotes}
	case event.KindPumping:
		return []string{fieldWhen, fieldQuantity, fieldNotes}
	case event.KindSkinToSkin:
		return []string{fieldWhen, fieldMinutes, fieldNotes}
	default:
		return []string{fieldWhen, fieldNotes}
	}
}

func fieldLabel(name string) string {
	switch name {
	case fieldWhen:
		return "When (" + timestampLayout + ")"
	case fieldSource:
		return "Source (breast|breastmilk|formula)"
	case fieldQuantity:
		return "Quantity (ml)"
	case fieldMinutes:
		return "Minutes"
	case fieldUrine:
		return "Urine (y/n)"
	case fieldStool:
		return "Stool (y/n)"
	case fieldNotes:
		return "Notes"
	default:
		return name
	}
}

// newForm builds an empty form for a kind with the timestamp
// prefilled to now.
func newForm(kind event.Kind, now time.Time) form {
	text := now.Local().Format(timestampLayout)
	f := buildForm(kind, map[string]string{fieldWhen: text})
	f.baseWhen = now
	f.baseWhenText = text
	return f
}

// editForm builds a form prefilled from an existing event.
func editForm(e event.Event) form {
	whenText := e.OccurredAt.Local().Format(timestampLayout)
	values := map[string]string{
		fieldWhen:  whenText,
		fieldNotes: e.Notes,
	}
	if e.Source != "" {
		values[fieldSource] = string(e.Source)
	}
	if e.QuantityML != 0 {
		values[fieldQuantity] = strconv.Itoa(e.QuantityML)
	}
	if e.Minutes != 0 {
		values[fieldMinutes] = strconv.Itoa(e.Minutes)
	}
	if e.Kind == event.KindDiaperChange {
		values[fieldUrine] = yesNo(e.Urine)
		values[fieldStool] = yesNo(e.Stool)
	}
	f := buildForm(e.Kind, values)
	f.baseWhen = e.OccurredAt
	f.baseWhenText = whenText
	return f
}

func buildForm(kind event.Kind, values map[string]string) form {
	names := fieldNamesFor(kind)
	fields := make([]formField, 0, len(names))
	for i, name := range names {
		input := textinput.New()
		input.Prompt = "> "
		input.CharLimit = 120
		input.SetValue(values[name])
		if i == 0 {
			input.Focus()
		}
		fields = append(fields, formField{
			name:  name,
			label: fieldLabel(name),
			input: input,
		})
	}
	return form{kind: kind, fields: fields}
}

func (f *form) focusNext() {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + 1) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

func (f *form) focusPrev() {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

// updateFocused routes a key to the focused input.
func (f form) updateFocused(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd
}

// value returns the entered text for a field, "" if the form has no
// such field.
func (f form) value(name string) string {
	for _, field := range f.fields {
		if field.name == name {
			return strings.TrimSpace(field.input.Value())
		}
	}
	return ""
}

// setValue overwrites a field's input, for tests.
func (f *form) setValue(name, value string) {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[i].input.SetValue(value)
			return
		}
	}
}

// parse converts the entered text into a normalized, validated event.
// All failures come back as *event.ValidationError so the form can
// render them inline.
func (f form) parse() (event.Event, error) {
	e := event.Event{Kind: f.kind, Notes: f.value(fieldNotes)}

	whenText := f.value(fieldWhen)
	if whenText == f.baseWhenText && !f.baseWhen.IsZero() {
		e.OccurredAt = f.baseWhen
	} else {
		when, err := time.ParseInLocation(timestampLayout, whenText, time.Local)
		if err != nil {
			return event.Event{}, event.NewValidationError(fieldWhen, "expected format "+timestampLayout)
		}
		e.OccurredAt = when
	}

	if v := f.value(fieldSource); v != "" {
		e.Source = event.FeedSource(v)
	}
	if v := f.value(fieldQuantity); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return event.Event{}, event.NewValidationError(fieldQuantity, "expected a whole number")
		}
		e.QuantityML = n
	}
	if v := f.value(fieldMinutes); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return event.Event{}, event.NewValidationError(fieldMinutes, "expected a whole number")
		}
		e.Minutes = n
	}
	if f.kind == event.KindDiaperChange {
		urine, err := parseYesNo(fieldUrine, f.value(fieldUrine))
		if err != nil {
			return event.Event{}, err
		}
		stool, err := parseYesNo(fieldStool, f.value(fieldStool))
		if err != nil {
			return event.Event{}, err
		}
		e.Urine = urine
		e.Stool = stool
	}

	e.Normalize()
	if err := e.Validate(); err != nil {
		return event.Event{}, err
	}

	return e, nil
}

func parseYesNo(field, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "y", "yes", "true":
		return true, nil
	case "", "n", "no", "false":
		return false, nil
	default:
		return false, event.NewValidationError(field, fmt.Sprintf("expected y or n, got %q", value))
	}
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
