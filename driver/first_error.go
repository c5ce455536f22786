package driver

import "sync"

// firstError remembers the first failure reported by the output side.
// Later failures are usually consequences of it and are dropped.
type firstError struct {
	mu  sync.Mutex
	err error
}

// Set records err if nothing was recorded yet. A nil err is ignored.
func (f *firstError) Set(err error) {
	if err == nil {
		return
	}
	f.mu.Lock()
	if f.err == nil {
		f.err = err
	}
	f.mu.Unlock()
}

func (f *firstError) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
