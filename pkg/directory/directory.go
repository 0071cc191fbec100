package directory

import (
	"errors"
	"sync/atomic"
)

// Directory gates queries behind a one-time readiness transition.
// The zero value is not ready; Publish makes it ready exactly once.
type Directory struct {
	idx atomic.Pointer[Index]
}

func (d *Directory) Publish(idx *Index) error {
	if idx == nil {
		return errors.New("publish nil index")
	}
	if !d.idx.CompareAndSwap(nil, idx) {
		return ErrAlreadyPublished
	}
	return nil
}

func (d *Directory) Ready() bool {
	return d.idx.Load() != nil
}

func (d *Directory) Index() (*Index, error) {
	idx := d.idx.Load()
	if idx == nil {
		return nil, ErrNotReady
	}
	return idx, nil
}

func (d *Directory) Count() (int, error) {
	idx, err := d.Index()
	if err != nil {
		return 0, err
	}
	return idx.Count(), nil
}

func (d *Directory) LetterIndex() (Snapshot, error) {
	idx, err := d.Index()
	if err != nil {
		return Snapshot{}, err
	}
	return idx.LetterIndex(), nil
}

func (d *Directory) Range(offset, limit int) (Page, error) {
	idx, err := d.Index()
	if err != nil {
		return Page{}, err
	}
	return idx.Range(offset, limit)
}

func (d *Directory) Letter(letter string, offset, limit int) (LetterPage, error) {
	idx, err := d.Index()
	if err != nil {
		return LetterPage{}, err
	}
	return idx.Letter(letter, offset, limit)
}

func (d *Directory) Search(query string, limit int) (SearchResult, error) {
	idx, err := d.Index()
	if err != nil {
		return SearchResult{}, err
	}
	return idx.Search(query, limit)
}
