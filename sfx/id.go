package sfx

// Id is used to identify a specific sound effect
// Use Play to play the sounds after loading them
type Id string

func (id Id) Play() bool {
	return id.PlayVolume(1)
}

// PlayVolume plays the effect scaled by volume. It returns false if the
// effect is unknown, throttled or no voice is idle.
func (id Id) PlayVolume(volume float32) bool {
	lock.Lock()
	defer lock.Unlock()
	if e, ok := loadedSfx[id]; ok {
		return e.play(volume)
	}
	logger.Warn("sound effect not loaded", "id", id)
	return false
}
