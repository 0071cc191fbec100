package directory

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

// Index is an immutable, sorted name directory with a first-letter offset table.
// All methods are safe for concurrent use.
type Index struct {
	names         []string
	letterOffsets map[string]int
	// bucketEnds maps each letter to the offset of the next present letter, or len(names).
	bucketEnds map[string]int
}

func newIndex(names []string, letterOffsets map[string]int) *Index {
	idx := &Index{
		names:         names,
		letterOffsets: letterOffsets,
		bucketEnds:    make(map[string]int, len(letterOffsets)),
	}

	starts := make([]int, 0, len(letterOffsets))
	for _, offset := range letterOffsets {
		starts = append(starts, offset)
	}
	sort.Ints(starts)

	for letter, start := range letterOffsets {
		end := len(names)
		if i := sort.SearchInts(starts, start+1); i < len(starts) {
			end = starts[i]
		}
		idx.bucketEnds[letter] = end
	}

	return idx
}

func (idx *Index) Count() int {
	return len(idx.names)
}

// LetterIndex returns a copy of the letter offsets with the corpus size.
func (idx *Index) LetterIndex() Snapshot {
	return Snapshot{
		Index:      maps.Clone(idx.letterOffsets),
		TotalUsers: len(idx.names),
	}
}

// Range returns up to limit entries starting at offset. limit <= 0 means DefaultPageLimit.
func (idx *Index) Range(offset, limit int) (Page, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	total := len(idx.names)
	if offset < 0 || offset >= total {
		return Page{}, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidOffset, offset, total)
	}

	// remaining > 0 here, so neither bound can overflow for any limit
	remaining := total - offset
	end := offset + min(limit, remaining)

	return Page{
		Data:    idx.entries(offset, end),
		Offset:  offset,
		Limit:   limit,
		Total:   total,
		HasMore: limit < remaining,
	}, nil
}

// Letter returns up to limit entries of the letter's bucket, skipping the first offset.
// The scan stops at the first name under a different letter.
func (idx *Index) Letter(letter string, offset, limit int) (LetterPage, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	letter = LetterOf(strings.TrimSpace(letter))
	start, ok := idx.letterOffsets[letter]
	if !ok {
		return LetterPage{}, fmt.Errorf("%w: %q", ErrLetterNotFound, letter)
	}

	bucketSize := idx.bucketEnds[letter] - start
	data := make([]Entry, 0, min(limit, bucketSize))
	for i := start + min(offset, len(idx.names)-start); i < len(idx.names) && len(data) < limit; i++ {
		if LetterOf(idx.names[i]) != letter {
			break
		}
		data = append(data, Entry{ID: i, Name: idx.names[i]})
	}

	return LetterPage{
		Data:       data,
		Letter:     letter,
		Offset:     offset,
		Limit:      limit,
		StartIndex: start,
		Total:      len(idx.names),
		BucketSize: bucketSize,
	}, nil
}

// Search returns the contiguous run of names starting with query, case-insensitively,
// capped at limit. limit <= 0 means DefaultSearchLimit.
func (idx *Index) Search(query string, limit int) (SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query = strings.ToLower(query)
	if query == "" {
		return SearchResult{}, ErrEmptyQuery
	}

	result := SearchResult{Data: []Entry{}, Query: query}

	first := idx.firstMatch(query)
	if first < 0 {
		return result, nil
	}

	for i := first; i < len(idx.names) && len(result.Data) < limit; i++ {
		if !strings.HasPrefix(strings.ToLower(idx.names[i]), query) {
			break
		}
		result.Data = append(result.Data, Entry{ID: i, Name: idx.names[i]})
	}
	result.ResultsCount = len(result.Data)

	return result, nil
}

// firstMatch finds the leftmost name with the given lowercase prefix, or -1.
// A match keeps searching left; a smaller name goes right; anything else goes left.
// Correct only when names are sorted case-insensitively.
func (idx *Index) firstMatch(prefix string) int {
	left, right := 0, len(idx.names)-1
	found := -1

	for left <= right {
		mid := left + (right-left)/2
		name := strings.ToLower(idx.names[mid])

		switch {
		case strings.HasPrefix(name, prefix):
			found = mid
			right = mid - 1
		case name < prefix:
			left = mid + 1
		default:
			right = mid - 1
		}
	}

	return found
}

func (idx *Index) entries(from, to int) []Entry {
	out := make([]Entry, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, Entry{ID: i, Name: idx.names[i]})
	}
	return out
}

// Letters returns the recorded letters in corpus order.
func (idx *Index) Letters() []string {
	letters := make([]string, 0, len(idx.letterOffsets))
	for letter := range idx.letterOffsets {
		letters = append(letters, letter)
	}
	sort.Slice(letters, func(i, j int) bool {
		return idx.letterOffsets[letters[i]] < idx.letterOffsets[letters[j]]
	})
	return letters
}

// Name returns the name at id.
func (idx *Index) Name(id int) (string, bool) {
	if id < 0 || id >= len(idx.names) {
		return "", false
	}
	return idx.names[id], true
}
