package ndsp

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChannel is returned for channel IDs outside [0, NumChannels).
	ErrInvalidChannel = errors.New("ndsp: invalid channel")
	// ErrChannelInUse is returned when another handle holds the channel.
	// Retry later or pick another channel.
	ErrChannelInUse = errors.New("ndsp: channel already in use")
	// ErrWaveBusy is returned when a wave buffer is still queued or playing.
	ErrWaveBusy = errors.New("ndsp: wave buffer busy")
	// ErrSampleCountOutOfBounds is returned when a sample count exceeds the buffer.
	ErrSampleCountOutOfBounds = errors.New("ndsp: sample count out of bounds")
	// ErrServiceInit wraps failures of the audio service to start.
	ErrServiceInit = errors.New("ndsp: service initialization failed")
	// ErrServiceInUse is returned when an exclusive service is already active.
	ErrServiceInUse = errors.New("ndsp: service already in use")
	// ErrClosed is returned by handles used after Close.
	ErrClosed = errors.New("ndsp: closed")
)

// ChannelError reports a failure tied to one channel.
// It matches its Kind with errors.Is.
type ChannelError struct {
	Kind error
	ID   uint8
}

func (e *ChannelError) Error() string {
	switch e.Kind {
	case ErrInvalidChannel:
		return fmt.Sprintf("audio channel with ID %d doesn't exist. Valid channels have an ID between 0 and %d", e.ID, NumChannels-1)
	case ErrChannelInUse:
		return fmt.Sprintf("audio channel with ID %d is already being used. Close the other handle if you want to use it here", e.ID)
	case ErrWaveBusy:
		return fmt.Sprintf("the selected wave buffer is busy playing on channel %d", e.ID)
	}
	return fmt.Sprintf("%v (channel %d)", e.Kind, e.ID)
}

func (e *ChannelError) Unwrap() error {
	return e.Kind
}

// SampleCountError reports a sample count larger than the buffer holds.
type SampleCountError struct {
	Requested uint32
	Max       uint32
}

func (e *SampleCountError) Error() string {
	return fmt.Sprintf("the sample count requested is too big (requested = %d, maximum = %d)", e.Requested, e.Max)
}

func (e *SampleCountError) Unwrap() error {
	return ErrSampleCountOutOfBounds
}
