package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/fourpics/internal/model"
)

func slots(letters string) []model.SlotState {
	out := make([]model.SlotState, 0, len(letters))
	for _, r := range letters {
		if r == '_' {
			out = append(out, model.SlotState{})
			continue
		}
		out = append(out, model.SlotState{Filled: true, Letter: r})
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		slots    []model.SlotState
		expected string
		want     model.ValidationResult
	}{
		{"correct", slots("CAT"), "CAT", model.ValidationCorrect},
		{"wrong order", slots("ACT"), "CAT", model.ValidationIncorrect},
		{"one empty slot", slots("C_T"), "CAT", model.ValidationUnknown},
		{"all empty", slots("___"), "CAT", model.ValidationUnknown},
		{"no slots", nil, "", model.ValidationUnknown},
		{"case sensitive", slots("cat"), "CAT", model.ValidationIncorrect},
		{"single letter", slots("A"), "A", model.ValidationCorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.slots, tt.expected))
		})
	}
}

func TestValidateIsPure(t *testing.T) {
	in := slots("DOG")
	first := Validate(in, "DOG")
	second := Validate(in, "DOG")

	assert.Equal(t, first, second)
	assert.Equal(t, slots("DOG"), in)
}
