package services

import "sync"

// fileIndex is the set of file node ids resolved during one sync run.
// The materializer only links files present here.
type fileIndex struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func newFileIndex() *fileIndex {
	return &fileIndex{ids: make(map[string]struct{})}
}

func (f *fileIndex) add(id string) {
	f.mu.Lock()
	f.ids[id] = struct{}{}
	f.mu.Unlock()
}

func (f *fileIndex) has(id string) bool {
	if id == "" {
		return false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.ids[id]
	return ok
}

func (f *fileIndex) len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.ids)
}
