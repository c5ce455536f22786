package sfx

import (
	"math/rand/v2"
	"time"

	"github.com/Lundis/go-ndsp/loaders"
)

var loadedSfx map[Id]*Sfx

type Sfx struct {
	Id           Id
	Volume       float32
	ThrottlingMs int
	Variations   []*SfxVariant
	DebugMode    bool
	lastPlayed   time.Time
}

type SfxVariant struct {
	Path         string
	Probability  float64
	Volume       float32
	ThrottlingMs int
	sound        *loaders.Sound
	lastPlayed   time.Time
}

func (e *Sfx) play(volume float32) bool {
	if len(e.Variations) == 0 {
		return false
	}

	if time.Since(e.lastPlayed) <= time.Duration(e.ThrottlingMs)*time.Millisecond {
		return false
	}
	unThrottled := make([]*SfxVariant, 0, len(e.Variations))
	probabilitySum := 0.0
	for _, v := range e.Variations {
		if v.sound == nil {
			continue
		}
		if time.Since(v.lastPlayed) > time.Duration(v.ThrottlingMs)*time.Millisecond {
			unThrottled = append(unThrottled, v)
			probabilitySum += v.Probability
		}
	}
	if len(unThrottled) == 0 {
		return false
	}
	random := rand.Float64() * probabilitySum

	for _, v := range unThrottled {
		if random <= v.Probability+0.001 {
			if !v.play(e.Volume * volume) {
				return false
			}
			e.lastPlayed = time.Now()
			if e.DebugMode {
				logger.Info("playing sound effect", "id", e.Id, "variation", v.Path)
			}
			return true
		}
		random -= v.Probability
	}
	return false
}

func (e *SfxVariant) play(volume float32) bool {
	if !playSound(e.sound, e.Volume*volume) {
		return false
	}
	e.lastPlayed = time.Now()
	return true
}
