package playlist

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/tools/godoc/vfs"

	"github.com/Lundis/go-ndsp/loaders"
	_ "github.com/Lundis/go-ndsp/loaders/oggvorbis"
	_ "github.com/Lundis/go-ndsp/loaders/wav"
)

var lock sync.Mutex

// LoadFolder loads playlists from a regular folder.
// See Load for more information.
func LoadFolder(folder string) error {
	fs := vfs.OS(folder)
	return Load(fs)
}

// Load loads playlists from a virtual filesystem.
// At the root of the filesystem there must be a "playlist.json" file, which references any files to be loaded.
// A playlist with a track that fails to load is skipped.
func Load(fileSystem vfs.Opener) error {
	start := time.Now()
	playlists, err := loadRegistry(fileSystem, "playlist.json")
	if err != nil {
		return err
	}
	loaded := make(map[Id]*PlayList, len(playlists))
playlistLoop:
	for _, pl := range playlists {
		if len(pl.Tracks) == 0 {
			logger.Warn("skipping empty playlist", "playlist", pl.Id)
			continue
		}
		for _, track := range pl.Tracks {
			raw, err := readFile(fileSystem, track.Path)
			if err != nil {
				logger.Warn("failed to read music track from disk", "path", track.Path, "error", err)
				continue playlistLoop
			}
			track.sound, err = loaders.Decode(track.Path, raw)
			if err != nil {
				logger.Warn("failed to decode music track", "path", track.Path, "error", err)
				continue playlistLoop
			}
		}
		loaded[pl.Id] = pl
	}

	lock.Lock()
	playLists = loaded
	lock.Unlock()

	logger.Info("loaded playlists", "count", len(loaded), "duration", time.Since(start))
	return nil
}

func readFile(fs vfs.Opener, path string) (data []byte, err error) {
	file, err := fs.Open(path)
	if err != nil {
		return
	}
	data, err = io.ReadAll(file)
	_ = file.Close()
	return
}

func loadRegistry(fs vfs.Opener, path string) (registry []*PlayList, err error) {
	data, err := readFile(fs, path)
	if err != nil {
		err = fmt.Errorf("failed to open %s: %w", path, err)
		return
	}
	err = json.Unmarshal(data, &registry)
	if err != nil {
		err = fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return
}
