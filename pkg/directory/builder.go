package directory

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// LineSource is satisfied by *bufio.Scanner.
type LineSource interface {
	Scan() bool
	Text() string
	Err() error
}

// NameFilter reports whether a name should be left out of the index.
type NameFilter func(name string) (bool, error)

type BuilderOption func(*Builder)

// WithProgress calls fn with the running count every `every` names.
func WithProgress(every int, fn func(count int)) BuilderOption {
	return func(b *Builder) {
		b.progressEvery = every
		b.onProgress = fn
	}
}

// WithLetterObserver calls fn once per letter, when its first offset is recorded.
func WithLetterObserver(fn func(letter string, offset int)) BuilderOption {
	return func(b *Builder) {
		b.onLetter = fn
	}
}

func WithFilter(filter NameFilter) BuilderOption {
	return func(b *Builder) {
		b.filter = filter
	}
}

// WithVerifySorted makes Add fail with ErrUnsorted on the first case-insensitive descent.
func WithVerifySorted() BuilderOption {
	return func(b *Builder) {
		b.verifySorted = true
	}
}

// Builder folds a sorted stream of names into an Index in a single forward pass.
type Builder struct {
	names         []string
	letterOffsets map[string]int
	currentLetter string
	previousLower string

	progressEvery int
	onProgress    func(count int)
	onLetter      func(letter string, offset int)
	filter        NameFilter
	verifySorted  bool
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		letterOffsets: make(map[string]int),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Add trims line and indexes it. Blank lines and filtered names are skipped without consuming an id.
func (b *Builder) Add(line string) error {
	name := strings.TrimSpace(line)
	if name == "" {
		return nil
	}

	if b.filter != nil {
		skip, err := b.filter(name)
		if err != nil {
			return fmt.Errorf("filter %q: %w", name, err)
		}
		if skip {
			return nil
		}
	}

	count := b.size()

	if b.verifySorted {
		lower := strings.ToLower(name)
		if count > 0 && lower < b.previousLower {
			return fmt.Errorf("%w: %q at %d sorts before %q", ErrUnsorted, name, count, b.previousLower)
		}
		b.previousLower = lower
	}

	b.names = append(b.names, name)

	// first block only; a letter seen again after another letter keeps its original offset
	letter := LetterOf(name)
	if letter != b.currentLetter {
		if _, seen := b.letterOffsets[letter]; !seen {
			b.letterOffsets[letter] = count
			if b.onLetter != nil {
				b.onLetter(letter, count)
			}
		}
		b.currentLetter = letter
	}

	if b.progressEvery > 0 && b.onProgress != nil && (count+1)%b.progressEvery == 0 {
		b.onProgress(count + 1)
	}

	return nil
}

func (b *Builder) size() int {
	return len(b.names)
}

// Build hands the accumulated state to a new Index and resets the builder.
func (b *Builder) Build() *Index {
	idx := newIndex(b.names, b.letterOffsets)

	b.names = nil
	b.letterOffsets = make(map[string]int)
	b.currentLetter = ""
	b.previousLower = ""

	return idx
}

// BuildFrom drains src into a new Index. Any source, filter or ordering error aborts the build.
func BuildFrom(ctx context.Context, src LineSource, opts ...BuilderOption) (*Index, error) {
	b := NewBuilder(opts...)

	for src.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := b.Add(src.Text()); err != nil {
			return nil, err
		}
	}

	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	return b.Build(), nil
}

// New builds an Index from an in-memory list of names.
func New(names []string, opts ...BuilderOption) (*Index, error) {
	b := NewBuilder(opts...)
	for _, name := range names {
		if err := b.Add(name); err != nil {
			return nil, err
		}
	}

	return b.Build(), nil
}

// LetterOf returns the uppercased first rune of s, or "" for an empty string.
func LetterOf(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}

	return string(unicode.ToUpper(r))
}
