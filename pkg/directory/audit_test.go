package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAudit(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		expected AuditReport
		sorted   bool
	}{
		{
			name:     "sorted",
			names:    []string{"Alice", "amy", "", "Bob", "Bobby", "Carl"},
			expected: AuditReport{Count: 5, Samples: []Descent{}, SplitLetters: []string{}},
			sorted:   true,
		},
		{
			name:  "split_letter",
			names: []string{"Alice", "Bob", "Amy", "Carl"},
			expected: AuditReport{
				Count:        4,
				Descents:     1,
				Samples:      []Descent{{Position: 2, Previous: "Bob", Name: "Amy"}},
				SplitLetters: []string{"A"},
			},
		},
		{
			name:  "descent_within_letter",
			names: []string{"Bobby", "Bob"},
			expected: AuditReport{
				Count:        2,
				Descents:     1,
				Samples:      []Descent{{Position: 1, Previous: "Bobby", Name: "Bob"}},
				SplitLetters: []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := NewAudit()
			for _, n := range tt.names {
				audit.Add(n)
			}

			report := audit.Report()
			assert.Equal(t, tt.expected.Count, report.Count)
			assert.Equal(t, tt.expected.Descents, report.Descents)
			assert.ElementsMatch(t, tt.expected.Samples, report.Samples)
			assert.ElementsMatch(t, tt.expected.SplitLetters, report.SplitLetters)
			assert.Equal(t, tt.sorted, report.Sorted())
		})
	}
}

func TestAudit_CapsSamples(t *testing.T) {
	audit := NewAudit()
	for i := 0; i < 30; i++ {
		audit.Add("b")
		audit.Add("a")
	}

	report := audit.Report()
	assert.Equal(t, 30, report.Descents)
	assert.Len(t, report.Samples, maxReportedDescents)
	assert.Equal(t, []string{"A", "B"}, report.SplitLetters)
}
