package sfx

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/godoc/vfs"

	"github.com/Lundis/go-ndsp/loaders"
	_ "github.com/Lundis/go-ndsp/loaders/wav"
)

var lock sync.Mutex

// LoadFolder loads sound effects from a regular folder.
// See Load for more information.
func LoadFolder(folder string) error {
	fs := vfs.OS(folder)
	return Load(fs)
}

// Load loads sound effects from a virtual filesystem.
// At the root of the filesystem there must be a "sfx.json" file, which references any files to be loaded.
// Files that fail to load are logged and skipped.
func Load(fileSystem vfs.Opener) error {
	start := time.Now()
	soundEffects, err := loadRegistry(fileSystem, "sfx.json")
	if err != nil {
		return err
	}

	// each file is decoded once, however many variations use it
	var paths []string
	sounds := make(map[string]*loaders.Sound)
	for _, e := range soundEffects {
		for _, v := range e.Variations {
			if _, ok := sounds[v.Path]; !ok {
				sounds[v.Path] = nil
				paths = append(paths, v.Path)
			}
		}
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, path := range paths {
		g.Go(func() error {
			raw, err := readFile(fileSystem, path)
			if err != nil {
				logger.Warn("failed to read sound effect from disk", "path", path, "error", err)
				return nil
			}
			sound, err := loaders.Decode(path, raw)
			if err != nil {
				logger.Warn("failed to decode sound effect", "path", path, "error", err)
				return nil
			}
			mu.Lock()
			sounds[path] = sound
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	effects := make(map[Id]*Sfx, len(soundEffects))
	for _, e := range soundEffects {
		for _, v := range e.Variations {
			v.sound = sounds[v.Path]
		}
		effects[e.Id] = e
	}

	lock.Lock()
	loadedSfx = effects
	lock.Unlock()

	logger.Info("loaded sound effects",
		"count", len(effects),
		"files", len(paths),
		"duration", time.Since(start))
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

func loadRegistry(fs vfs.Opener, path string) (registry []*Sfx, err error) {
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
