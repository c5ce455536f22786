package ndsp

import "sync"

// ServiceCounter tracks how many owners hold a service.
// The service is running iff the count is nonzero.
type ServiceCounter struct {
	m     sync.Mutex
	count int
}

// DefaultCounter is the process-wide counter for the audio service,
// used by Init unless WithCounter says otherwise.
var DefaultCounter = &ServiceCounter{}

func (c *ServiceCounter) Count() int {
	c.m.Lock()
	defer c.m.Unlock()
	return c.count
}

// ServiceReference is one ownership share of a service.
type ServiceReference struct {
	counter *ServiceCounter
	cleanup func()
	once    sync.Once
}

// NewServiceReference takes a share of the service counted by counter.
// The first share runs start; if start fails the count is left unchanged and
// the error is returned. An exclusive reference fails with ErrServiceInUse
// while any other share exists.
func NewServiceReference(counter *ServiceCounter, exclusive bool, start func() error, cleanup func()) (*ServiceReference, error) {
	counter.m.Lock()
	defer counter.m.Unlock()

	if exclusive && counter.count != 0 {
		return nil, ErrServiceInUse
	}
	if counter.count == 0 && start != nil {
		if err := start(); err != nil {
			return nil, err
		}
	}
	counter.count++
	return &ServiceReference{counter: counter, cleanup: cleanup}, nil
}

// Release gives the share back. The last share runs cleanup.
// Calling Release more than once has no effect.
func (r *ServiceReference) Release() {
	r.once.Do(func() {
		c := r.counter
		c.m.Lock()
		defer c.m.Unlock()
		c.count--
		if c.count == 0 && r.cleanup != nil {
			r.cleanup()
		}
	})
}
