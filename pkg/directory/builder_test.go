package directory

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SkipsBlankLinesAndTrims(t *testing.T) {
	input := "Alice\n\n   \n  Amy  \n\tBob\r\n"

	idx, err := BuildFrom(context.Background(), bufio.NewScanner(strings.NewReader(input)))
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Count())
	name, ok := idx.Name(1)
	require.True(t, ok)
	assert.Equal(t, "Amy", name)
	assert.Equal(t, map[string]int{"A": 0, "B": 2}, idx.LetterIndex().Index)
}

func TestBuilder_LowercaseNamesShareBucket(t *testing.T) {
	idx, err := New([]string{"alice", "Amy", "bob", "Bobby"})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"A": 0, "B": 2}, idx.LetterIndex().Index)
}

func TestBuilder_UnsortedKeepsFirstBlock(t *testing.T) {
	// the second A block is not recorded and A's bucket ends at B
	idx, err := New([]string{"Alice", "Bob", "Amy", "Carl"})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 3}, idx.LetterIndex().Index)

	page, err := idx.Letter("A", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: 0, Name: "Alice"}}, page.Data)
}

func TestBuilder_VerifySorted(t *testing.T) {
	tests := []struct {
		name        string
		names       []string
		expectedErr error
	}{
		{name: "sorted", names: []string{"alice", "Amy", "amy", "Bob"}},
		{name: "case_insensitive_ties", names: []string{"BOB", "bob", "Bob"}},
		{name: "descent", names: []string{"Alice", "Bob", "Amy"}, expectedErr: ErrUnsorted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.names, WithVerifySorted())
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				assert.Contains(t, err.Error(), `"Amy" at 2`)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestBuilder_Filter(t *testing.T) {
	filter := func(name string) (bool, error) {
		return strings.HasPrefix(name, "x"), nil
	}

	idx, err := New([]string{"Alice", "xavier", "Bob"}, WithFilter(filter))
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Count())
	name, _ := idx.Name(1)
	assert.Equal(t, "Bob", name)
}

func TestBuilder_FilterError(t *testing.T) {
	boom := errors.New("boom")
	filter := func(string) (bool, error) { return false, boom }

	_, err := New([]string{"Alice"}, WithFilter(filter))
	assert.ErrorIs(t, err, boom)
}

func TestBuilder_Observers(t *testing.T) {
	var progress []int
	letters := map[string]int{}

	b := NewBuilder(
		WithProgress(2, func(count int) { progress = append(progress, count) }),
		WithLetterObserver(func(letter string, offset int) { letters[letter] = offset }),
	)
	for _, name := range []string{"Alice", "", "Amy", "Bob", "Bobby", "Carl"} {
		require.NoError(t, b.Add(name))
	}
	assert.Equal(t, 5, b.size())

	idx := b.Build()
	assert.Equal(t, []int{2, 4}, progress)
	assert.Equal(t, map[string]int{"A": 0, "B": 2, "C": 4}, letters)
	assert.Equal(t, 5, idx.Count())

	// builder is reset after Build
	assert.Equal(t, 0, b.size())
}

func TestBuildFrom_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildFrom(ctx, bufio.NewScanner(strings.NewReader("Alice\nBob\n")))
	assert.ErrorIs(t, err, context.Canceled)
}

type failingSource struct {
	lines []string
	err   error
}

func (f *failingSource) Scan() bool {
	return len(f.lines) > 0
}

func (f *failingSource) Text() string {
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line
}

func (f *failingSource) Err() error {
	return f.err
}

func TestBuildFrom_SourceError(t *testing.T) {
	readErr := errors.New("disk gone")

	_, err := BuildFrom(context.Background(), &failingSource{lines: []string{"Alice"}, err: readErr})
	require.ErrorIs(t, err, readErr)
	assert.Contains(t, err.Error(), "read corpus")
}
