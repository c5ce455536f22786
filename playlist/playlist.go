package playlist

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lundis/go-ndsp/loaders"
	"github.com/Lundis/go-ndsp/ndsp"
	"github.com/Lundis/go-ndsp/stream"
)

var (
	playLists       map[Id]*PlayList
	currentPlayList *PlayList
	music           *ndsp.Channel
	streamer        *stream.Streamer
	logger          = slog.Default().With("component", "playlist")
)

// BufferSamples is the size of each of the two streaming buffers.
var BufferSamples = 8192

type Id string

type PlayList struct {
	Id           Id
	Tracks       []*Track
	currentTrack int
}

type Track struct {
	Path   string
	Name   string
	Author string
	Volume float32
	sound  *loaders.Sound
}

// SetLogger replaces the package logger. Call it before Init.
func SetLogger(log *slog.Logger) {
	logger = log.With("component", "playlist")
}

// Init reserves channel for music.
func Init(n *ndsp.Ndsp, channel uint8) error {
	lock.Lock()
	defer lock.Unlock()
	if music != nil {
		return errors.New("playlist: already initialized")
	}
	ch, err := n.Channel(channel)
	if err != nil {
		return fmt.Errorf("playlist: %w", err)
	}
	music = ch
	return nil
}

// Close stops the music and gives the channel back.
func Close() error {
	lock.Lock()
	defer lock.Unlock()
	err := stopLocked()
	currentPlayList = nil
	if music != nil {
		err = errors.Join(err, music.Close())
		music = nil
	}
	return err
}

func Pause() {
	lock.Lock()
	defer lock.Unlock()
	if music != nil {
		music.SetPaused(true)
	}
}

func Resume() {
	lock.Lock()
	defer lock.Unlock()
	if music != nil {
		music.SetPaused(false)
	}
}

// Stop ends the current playlist.
func Stop() error {
	lock.Lock()
	defer lock.Unlock()
	currentPlayList = nil
	return stopLocked()
}

// Current returns the playing playlist and track.
func Current() (Id, *Track, bool) {
	lock.Lock()
	defer lock.Unlock()
	if currentPlayList == nil {
		return "", nil, false
	}
	return currentPlayList.Id, currentPlayList.Tracks[currentPlayList.currentTrack], true
}

// Play switches to the playlist and resumes the music. Playing the
// current playlist again does not restart it.
func (playListId Id) Play() error {
	lock.Lock()
	defer lock.Unlock()
	if music == nil {
		return errors.New("playlist: not initialized")
	}
	music.SetPaused(false)
	if currentPlayList != nil && currentPlayList.Id == playListId {
		return nil
	}
	if err := stopLocked(); err != nil {
		return err
	}
	currentPlayList = nil
	pl, ok := playLists[playListId]
	if !ok {
		return fmt.Errorf("playlist: %s not loaded", playListId)
	}
	if err := pl.play(); err != nil {
		return err
	}
	currentPlayList = pl
	return nil
}

// Process keeps the music streaming and moves on to the next track when
// one ends. Call it regularly, for example once per frame.
func Process() error {
	lock.Lock()
	defer lock.Unlock()
	if streamer == nil {
		return nil
	}
	playing, err := streamer.Process()
	if err != nil {
		return fmt.Errorf("playlist: %w", err)
	}
	if !playing && currentPlayList != nil {
		if err := currentPlayList.playNext(); err != nil {
			currentPlayList = nil
			return err
		}
	}
	return nil
}

func (pl *PlayList) play() error {
	track := pl.Tracks[pl.currentTrack]
	var opts []stream.Option
	if len(pl.Tracks) == 1 {
		opts = append(opts, stream.WithLoop())
	}
	s, err := stream.New(music, stream.NewMemorySource(track.sound), BufferSamples, opts...)
	if err != nil {
		return fmt.Errorf("playlist: %s: %w", track.Path, err)
	}
	music.SetMix(&[12]float32{0: track.Volume, 1: track.Volume})
	if err := s.Start(); err != nil {
		_ = s.Close()
		return fmt.Errorf("playlist: %s: %w", track.Path, err)
	}
	streamer = s
	logger.Info("playing track", "playlist", pl.Id, "track", track.Name, "author", track.Author)
	return nil
}

func stopLocked() error {
	if streamer == nil {
		return nil
	}
	err := streamer.Close()
	streamer = nil
	return err
}

func (pl *PlayList) playNext() error {
	if err := stopLocked(); err != nil {
		return err
	}
	pl.currentTrack = (pl.currentTrack + 1) % len(pl.Tracks)
	return pl.play()
}
