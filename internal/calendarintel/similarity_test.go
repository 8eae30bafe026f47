package calendarintel

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestTitlesAreSimilar(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "Team Standup", "Team Standup", true},
		{"case and whitespace only", "  Team   Standup ", "team standup", true},
		{"minor typo stays similar", "Quarterly Planning Review", "Quarterly Planing Review", true},
		{"unrelated titles", "Team Standup", "Dentist Appointment", false},
		{"numbered variant never a duplicate", "Bulk test task 1", "Bulk test task 2", false},
		{"numbered variant with different prefixes", "Task 1 follow-up", "Task 2 follow-up", false},
		{"test titles need the raised threshold", "test task alpha", "test task beta", false},
		{"bulk titles need the raised threshold", "bulk import run", "bulk export run", false},
		{"near-identical test titles pass raised threshold", "test run number one", "test run number one!", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitlesAreSimilar(tt.a, tt.b))
		})
	}
}

func TestTitlesAreSimilarSymmetric(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("order does not affect the result", prop.ForAll(
		func(a, b string) bool {
			return TitlesAreSimilar(a, b) == TitlesAreSimilar(b, a)
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("a title is always similar to itself", prop.ForAll(
		func(a string) bool {
			return TitlesAreSimilar(a, a)
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestSequenceRatioBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("ratio stays within [0,1]", prop.ForAll(
		func(a, b string) bool {
			r := sequenceRatio(a, b)
			return r >= 0 && r <= 1
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("identical strings have ratio 1", prop.ForAll(
		func(a string) bool {
			return sequenceRatio(a, a) == 1
		},
		gen.AlphaString(),
	))

	properties.Property("empty vs non-empty has ratio 0", prop.ForAll(
		func(a string) bool {
			if a == "" {
				return sequenceRatio(a, a) == 1
			}
			return sequenceRatio(a, "") == 0
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestIsNumberedVariant(t *testing.T) {
	assert.True(t, isNumberedVariant("bulk task 1", "bulk task 2"))
	assert.False(t, isNumberedVariant("bulk task 1", "bulk task 1"), "identical digit sequences are not a variant")
	assert.False(t, isNumberedVariant("bulk task", "bulk task"), "no digits at all is not a variant")
	assert.False(t, isNumberedVariant("task 1", "other 2"), "stripped text must still match")
}
