package sfx

// Scheduler lets you register sounds that should play in the future.
//
// If you are making a simulation game, the time is likely virtual,
// and this lets you use any time notion.
// If you use real time, just pass time.Now().Seconds() as the time.
//
// Scheduler can be used to schedule sounds to match timed animations,
// without needing to worry about executing it at exactly the right time.
//
// Remember to call Scheduler.Process() from your game loop.
type Scheduler struct {
	sounds []queuedSound
	// Window is how late a sound may still be played. Older sounds are dropped.
	Window float64
}

type queuedSound struct {
	id         Id
	whenToPlay float64
	volume     float32
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		sounds: make([]queuedSound, 0, 100),
		Window: 3,
	}
}

func (fs *Scheduler) PlaySoundEffectAt(id Id, at float64) {
	fs.PlaySoundEffectAtVolume(id, at, 1)
}

func (fs *Scheduler) PlaySoundEffectAtVolume(id Id, at float64, volume float32) {
	fs.sounds = append(fs.sounds, queuedSound{
		whenToPlay: at,
		volume:     volume,
		id:         id,
	})
}

func (fs *Scheduler) Pending() int {
	return len(fs.sounds)
}

func (fs *Scheduler) Clear() {
	fs.sounds = fs.sounds[:0]
}

// Process plays every sound that is due and returns how many were played.
func (fs *Scheduler) Process(now float64) int {
	played := 0
	i := 0
	for i < len(fs.sounds) {
		if fs.sounds[i].whenToPlay <= now {
			if fs.sounds[i].whenToPlay >= now-fs.Window && fs.sounds[i].id.PlayVolume(fs.sounds[i].volume) {
				played++
			}
			// clean array by moving the last element to the now free position
			fs.sounds[i] = fs.sounds[len(fs.sounds)-1]
			fs.sounds = fs.sounds[:len(fs.sounds)-1]
			continue
		}
		i++
	}
	return played
}
