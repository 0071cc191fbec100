package directory

import (
	"sort"
	"strings"

	"github.com/scylladb/go-set/strset"
)

// maxReportedDescents caps how many ordering violations an Audit keeps.
const maxReportedDescents = 10

// Descent is a name that sorts before its predecessor.
type Descent struct {
	Position int    `json:"position"`
	Previous string `json:"previous"`
	Name     string `json:"name"`
}

// Audit inspects a corpus for the ordering the Index relies on without building one.
type Audit struct {
	count         int
	descents      int
	samples       []Descent
	previous      string
	previousLower string
	currentLetter string
	closed        *strset.Set
	split         *strset.Set
}

func NewAudit() *Audit {
	return &Audit{
		closed: strset.New(),
		split:  strset.New(),
	}
}

// Add records the next line. Blank lines are ignored like the Builder does.
func (a *Audit) Add(line string) {
	name := strings.TrimSpace(line)
	if name == "" {
		return
	}

	lower := strings.ToLower(name)
	if a.count > 0 && lower < a.previousLower {
		a.descents++
		if len(a.samples) < maxReportedDescents {
			a.samples = append(a.samples, Descent{Position: a.count, Previous: a.previous, Name: name})
		}
	}

	letter := LetterOf(name)
	if letter != a.currentLetter {
		if a.closed.Has(letter) {
			a.split.Add(letter)
		}
		if a.currentLetter != "" {
			a.closed.Add(a.currentLetter)
		}
		a.currentLetter = letter
	}

	a.previous = name
	a.previousLower = lower
	a.count++
}

type AuditReport struct {
	Count        int       `json:"count"`
	Descents     int       `json:"descents"`
	Samples      []Descent `json:"samples,omitempty"`
	SplitLetters []string  `json:"splitLetters,omitempty"`
}

// Sorted reports whether the corpus satisfies the ordering the Index assumes.
func (r AuditReport) Sorted() bool {
	return r.Descents == 0 && len(r.SplitLetters) == 0
}

func (a *Audit) Report() AuditReport {
	split := a.split.List()
	sort.Strings(split)

	return AuditReport{
		Count:        a.count,
		Descents:     a.descents,
		Samples:      append([]Descent(nil), a.samples...),
		SplitLetters: split,
	}
}
