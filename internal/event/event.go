package event

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Kind identifies the category of a logged event.
// The set is closed; adding a kind requires extending the validation
// switch in Validate and the form bindings in the terminal session.
type Kind string

const (
	KindFeeding      Kind = "feeding"
	KindDiaperChange Kind = "diaper_change"
	KindSleep        Kind = "sleep"
	KindPumping      Kind = "pumping"
	KindSkinToSkin   Kind = "skin_to_skin"
)

// Kinds lists all valid kinds in display order.
var Kinds = []Kind{
	KindFeeding,
	KindDiaperChange,
	KindSleep,
	KindPumping,
	KindSkinToSkin,
}

// Valid reports whether k is a member of the closed kind set.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Label returns the human-readable name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindFeeding:
		return "Feeding"
	case KindDiaperChange:
		return "Diaper change"
	case KindSleep:
		return "Sleep"
	case KindPumping:
		return "Pumping"
	case KindSkinToSkin:
		return "Skin-to-skin"
	default:
		return string(k)
	}
}

// FeedSource identifies how a feeding was given.
type FeedSource string

const (
	FeedBreast     FeedSource = "breast"     // nursing, measured in minutes
	FeedBreastmilk FeedSource = "breastmilk" // bottled breastmilk, measured in ml
	FeedFormula    FeedSource = "formula"    // formula, measured in ml
)

// FeedSources lists all valid feed sources.
var FeedSources = []FeedSource{FeedBreast, FeedBreastmilk, FeedFormula}

// Valid reports whether s is a known feed source.
func (s FeedSource) Valid() bool {
	switch s {
	case FeedBreast, FeedBreastmilk, FeedFormula:
		return true
	}
	return false
}

// Event is a single logged care occurrence.
//
// ID is assigned by the store on creation and is immutable. Kind is
// fixed at creation. The remaining fields are interpreted per kind:
//
//   - feeding: Source, plus Minutes (breast) or QuantityML (bottle)
//   - diaper_change: Urine, Stool (at least one set)
//   - sleep: Minutes
//   - pumping: QuantityML
//   - skin_to_skin: Minutes
//
// Notes is free-form and valid for every kind.
type Event struct {
	ID         int64      `json:"id"`
	Kind       Kind       `json:"kind"`
	OccurredAt time.Time  `json:"occurred_at"`
	Notes      string     `json:"notes,omitempty"`
	Source     FeedSource `json:"source,omitempty"`
	QuantityML int        `json:"quantity_ml,omitempty"`
	Minutes    int        `json:"minutes,omitempty"`
	Urine      bool       `json:"urine,omitempty"`
	Stool      bool       `json:"stool,omitempty"`
}

// ValidationError reports a field that failed a constraint check.
// Recoverable: the session re-renders the form with the reason inline.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Normalize canonicalizes free-text fields in place.
// Notes are trimmed and NFC-normalized so equal-looking strings
// compare equal after a persistence round trip.
func (e *Event) Normalize() {
	e.Notes = norm.NFC.String(strings.TrimSpace(e.Notes))
	e.OccurredAt = e.OccurredAt.UTC()
}

// Validate checks all field constraints for the event's kind.
// Returns a *ValidationError naming the offending field, or nil.
func (e Event) Validate() error {
	if !e.Kind.Valid() {
		return NewValidationError("kind", fmt.Sprintf("unknown kind %q", e.Kind))
	}
	if e.OccurredAt.IsZero() {
		return NewValidationError("occurred_at", "timestamp is required")
	}

	switch e.Kind {
	case KindFeeding:
		if !e.Source.Valid() {
			return NewValidationError("source", fmt.Sprintf("must be one of %v", FeedSources))
		}
		if e.Source == FeedBreast {
			if e.Minutes <= 0 {
				return NewValidationError("minutes", "breast feeding requires minutes > 0")
			}
			if e.QuantityML != 0 {
				return NewValidationError("quantity_ml", "breast feeding is measured in minutes, not ml")
			}
		} else {
			if e.QuantityML <= 0 {
				return NewValidationError("quantity_ml", "bottle feeding requires quantity > 0 ml")
			}
			if e.Minutes != 0 {
				return NewValidationError("minutes", "bottle feeding is measured in ml, not minutes")
			}
		}
	case KindDiaperChange:
		if !e.Urine && !e.Stool {
			return NewValidationError("urine", "diaper change requires urine or stool")
		}
	case KindSleep:
		if e.Minutes <= 0 {
			return NewValidationError("minutes", "sleep requires minutes > 0")
		}
	case KindPumping:
		if e.QuantityML <= 0 {
			return NewValidationError("quantity_ml", "pumping requires quantity > 0 ml")
		}
	case KindSkinToSkin:
		if e.Minutes <= 0 {
			return NewValidationError("minutes", "skin-to-skin requires minutes > 0")
		}
	}

	return nil
}

// Summary returns a one-line description of the event for list views.
func (e Event) Summary() string {
	switch e.Kind {
	case KindFeeding:
		if e.Source == FeedBreast {
			return fmt.Sprintf("Feeding (breast, %d min)", e.Minutes)
		}
		return fmt.Sprintf("Feeding (%s, %d ml)", e.Source, e.QuantityML)
	case KindDiaperChange:
		parts := []string{}
		if e.Urine {
			parts = append(parts, "urine")
		}
		if e.Stool {
			parts = append(parts, "stool")
		}
		return fmt.Sprintf("Diaper change (%s)", strings.Join(parts, "+"))
	case KindSleep:
		return fmt.Sprintf("Sleep (%d min)", e.Minutes)
	case KindPumping:
		return fmt.Sprintf("Pumping (%d ml)", e.QuantityML)
	case KindSkinToSkin:
		return fmt.Sprintf("Skin-to-skin (%d min)", e.Minutes)
	default:
		return string(e.Kind)
	}
}
