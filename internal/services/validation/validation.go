// Package validation checks a completed answer row against the round's word.
package validation

import (
	"strings"

	"github.com/samber/lo"

	"github.com/mcoot/fourpics/internal/model"
)

// Validate returns ValidationUnknown while any slot is empty. Once every slot
// is filled the letters, in slot order, are compared case-sensitively with
// expected.
func Validate(slots []model.SlotState, expected string) model.ValidationResult {
	if len(slots) == 0 {
		return model.ValidationUnknown
	}
	if !lo.EveryBy(slots, func(s model.SlotState) bool { return s.Filled }) {
		return model.ValidationUnknown
	}

	var b strings.Builder
	for _, s := range slots {
		b.WriteRune(s.Letter)
	}
	if b.String() == expected {
		return model.ValidationCorrect
	}
	return model.ValidationIncorrect
}
