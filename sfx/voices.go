package sfx

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Lundis/go-ndsp/loaders"
	"github.com/Lundis/go-ndsp/ndsp"
)

// voice is a channel reserved for sound effects and the wave last queued on it.
type voice struct {
	ch   *ndsp.Channel
	wave *ndsp.WaveInfo
}

var (
	voicesLock sync.Mutex
	voices     []*voice
	logger     = slog.Default().With("component", "sfx")
)

// Init reserves the given channels for sound effects. Channels held
// elsewhere are skipped; Init fails only if none could be reserved.
// At most len(channels) effects play at the same time.
func Init(n *ndsp.Ndsp, channels []uint8) error {
	voicesLock.Lock()
	defer voicesLock.Unlock()
	if len(voices) != 0 {
		return errors.New("sfx: already initialized")
	}
	for _, id := range channels {
		ch, err := n.Channel(id)
		if err != nil {
			logger.Warn("skipping channel", "channel", id, "error", err)
			continue
		}
		voices = append(voices, &voice{ch: ch})
	}
	if len(voices) == 0 {
		return fmt.Errorf("sfx: none of the %d channels is available", len(channels))
	}
	logger.Debug("voices reserved", "count", len(voices))
	return nil
}

// SetLogger replaces the package logger. Call it before Init.
func SetLogger(log *slog.Logger) {
	logger = log.With("component", "sfx")
}

// Close stops every effect and gives the channels back.
func Close() error {
	voicesLock.Lock()
	defer voicesLock.Unlock()
	var errs []error
	for _, v := range voices {
		if v.wave != nil {
			errs = append(errs, v.wave.Close())
		}
		errs = append(errs, v.ch.Close())
	}
	voices = nil
	return errors.Join(errs...)
}

// Playing returns the number of effects currently playing.
func Playing() int {
	voicesLock.Lock()
	defer voicesLock.Unlock()
	count := 0
	for _, v := range voices {
		if v.ch.IsPlaying() {
			count++
		}
	}
	return count
}

// playSound queues sound on the first idle voice.
func playSound(sound *loaders.Sound, volume float32) bool {
	voicesLock.Lock()
	defer voicesLock.Unlock()
	for _, v := range voices {
		if v.ch.IsPlaying() {
			continue
		}
		if v.wave != nil {
			_ = v.wave.Close()
		}
		v.ch.SetFormat(sound.Format)
		v.ch.SetSampleRate(float32(sound.SampleRate))
		v.ch.SetMix(&[12]float32{0: volume, 1: volume})
		v.wave = ndsp.NewWaveInfo(sound.Data, sound.Format, false)
		if err := v.ch.QueueWave(v.wave); err != nil {
			logger.Warn("failed to queue sound effect", "channel", v.ch.ID(), "error", err)
			return false
		}
		return true
	}
	logger.Debug("no idle voice")
	return false
}
