package expression

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckNameSingleMatch(t *testing.T) {
	compiled, err := Compile([]string{
		`Runes > 10`,
		`HasPrefix("test_")`,
		`Contains("admin")`,
		`Name matches "^[0-9]+$"`,
	})
	require.NoError(t, err)

	tests := []struct {
		name          string
		input         string
		expectedMatch bool
		expectedText  string
	}{
		{name: "short_regular", input: "Alice", expectedMatch: false},
		{name: "too_long", input: "Bartholomew_the_Great", expectedMatch: true, expectedText: `Runes > 10`},
		{name: "prefix_case_insensitive", input: "TEST_bot", expectedMatch: true, expectedText: `HasPrefix("test_")`},
		{name: "contains", input: "SysAdmin", expectedMatch: true, expectedText: `Contains("admin")`},
		{name: "digits_only", input: "12345", expectedMatch: true, expectedText: `Name matches "^[0-9]+$"`},
		{name: "unicode_length", input: "Émilie", expectedMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, text, err := CheckNameSingleMatch(tt.input, compiled)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedMatch, match)
			assert.Equal(t, tt.expectedText, text)
		})
	}
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile([]string{`Name +`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `compile expression "Name +"`)

	_, err = Compile([]string{`Runes`})
	assert.Error(t, err, "non-bool expressions are rejected at compile time")
}

func TestNameFilter_NoExpressions(t *testing.T) {
	filter := NameFilter(nil, nil)

	skip, err := filter("anything")
	require.NoError(t, err)
	assert.False(t, skip)
}

func TestNameFilter_TracesMatchedExpression(t *testing.T) {
	compiled, err := Compile([]string{`Contains("bot")`, `Runes > 10`})
	require.NoError(t, err)

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.TraceLevel)
	filter := NameFilter(compiled, log.WithField("prefix", "filter"))

	skip, err := filter("Alice")
	require.NoError(t, err)
	assert.False(t, skip)
	assert.Empty(t, hook.AllEntries())

	skip, err = filter("HelperBot")
	require.NoError(t, err)
	assert.True(t, skip)

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.TraceLevel, entry.Level)
	assert.Equal(t, `Skipping "HelperBot", matched: Contains("bot")`, entry.Message)
}
