package level

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source supplies parsed level documents in streaming order. Next must not
// block: it returns false when nothing is available right now, whether
// because the list is exhausted or because an asynchronous load has not
// resolved yet. The store treats both the same way, as a failed spawn.
type Source interface {
	Next() (*Document, bool)
}

// SliceSource serves a fixed list of documents once, in order.
type SliceSource struct {
	docs []*Document
}

// NewSliceSource creates a source over pre-parsed documents.
func NewSliceSource(docs ...*Document) *SliceSource {
	return &SliceSource{docs: docs}
}

// Next pops the next document, or reports exhaustion.
func (s *SliceSource) Next() (*Document, bool) {
	if len(s.docs) == 0 {
		return nil, false
	}
	doc := s.docs[0]
	s.docs = s.docs[1:]
	return doc, true
}

// CycleSource serves a fixed list of documents endlessly, wrapping around
// at the end. Documents are shared across cycles; they are read-only by
// contract.
type CycleSource struct {
	docs []*Document
	next int
}

// NewCycleSource creates an endless source over pre-parsed documents.
func NewCycleSource(docs ...*Document) *CycleSource {
	return &CycleSource{docs: docs}
}

// Next returns the next document, wrapping at the end of the list.
func (c *CycleSource) Next() (*Document, bool) {
	if len(c.docs) == 0 {
		return nil, false
	}
	doc := c.docs[c.next]
	c.next = (c.next + 1) % len(c.docs)
	return doc, true
}

// prefetchDepth is how many parsed documents the file source keeps ready
// ahead of the store.
const prefetchDepth = 2

// FileSource loads level files on a background goroutine and hands them
// over through a buffered channel, so disk latency never blocks the frame
// tick. A document the loader has not delivered yet simply is not there:
// Next returns false and the store retries on a later frame.
type FileSource struct {
	ready  chan *Document
	cancel context.CancelFunc
	done   chan struct{}
}

// NewFileSource starts prefetching the given files in order. Malformed or
// unreadable files are skipped. With loop set, the list restarts from the
// beginning after the last file; each pass re-reads from disk, so edits
// between passes are picked up.
func NewFileSource(parent context.Context, paths []string, loop bool) *FileSource {
	ctx, cancel := context.WithCancel(parent)
	f := &FileSource{
		ready:  make(chan *Document, prefetchDepth),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go f.run(ctx, paths, loop)
	return f
}

func (f *FileSource) run(ctx context.Context, paths []string, loop bool) {
	defer close(f.done)
	defer close(f.ready)

	if len(paths) == 0 {
		return
	}
	for {
		for _, path := range paths {
			doc, err := LoadFile(path)
			if err != nil {
				continue
			}
			select {
			case f.ready <- doc:
			case <-ctx.Done():
				return
			}
		}
		if !loop {
			return
		}
	}
}

// Next hands over a prefetched document without blocking.
func (f *FileSource) Next() (*Document, bool) {
	select {
	case doc, ok := <-f.ready:
		if !ok {
			return nil, false
		}
		return doc, true
	default:
		return nil, false
	}
}

// Close abandons any in-flight load and waits for the loader goroutine to
// exit. Safe to call more than once.
func (f *FileSource) Close() error {
	f.cancel()
	<-f.done
	return nil
}

// LoadFile reads and parses one level file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level: parse %s: %w", path, err)
	}
	return doc, nil
}

// ScanDir returns the level files under dir (recursively), sorted by path
// so streaming order is stable across platforms.
func ScanDir(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("level: scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
