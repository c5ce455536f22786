package ndsp

// ClearReason says why a channel queue was emptied.
type ClearReason string

const (
	ClearExplicit ClearReason = "explicit"
	// ClearReset is a channel handle being closed.
	ClearReset ClearReason = "reset"
	// ClearPrematureRelease is a wave buffer closed while still in flight.
	ClearPrematureRelease ClearReason = "premature_release"
	// ClearTeardown is the Ndsp handle being closed.
	ClearTeardown ClearReason = "teardown"
)

// Recorder observes the handle layer. Implementations must be safe for
// concurrent use. The metrics package provides a prometheus Recorder.
type Recorder interface {
	ServiceOwners(n int)
	ChannelAcquired(id uint8, err error)
	WaveQueued(id uint8, err error)
	QueueCleared(id uint8, reason ClearReason)
}

type nopRecorder struct{}

func (nopRecorder) ServiceOwners(int) {}
func (nopRecorder) ChannelAcquired(uint8, error) {}
func (nopRecorder) WaveQueued(uint8, error) {}
func (nopRecorder) QueueCleared(uint8, ClearReason) {}
