package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lundis/go-ndsp/driver"
	"github.com/Lundis/go-ndsp/dsp"
	"github.com/Lundis/go-ndsp/internal/conf"
	"github.com/Lundis/go-ndsp/loaders"
	_ "github.com/Lundis/go-ndsp/loaders/oggvorbis"
	_ "github.com/Lundis/go-ndsp/loaders/wav"
	"github.com/Lundis/go-ndsp/metrics"
	"github.com/Lundis/go-ndsp/ndsp"
	"github.com/Lundis/go-ndsp/playlist"
)

const pollInterval = 10 * time.Millisecond

// session is a running DSP with a driver attached.
type session struct {
	ndsp   *ndsp.Ndsp
	server *http.Server
}

func startSession(s *conf.Settings) (*session, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	p := dsp.NewProcessor(dsp.Config{
		SampleRate: s.SampleRate,
		Open: driver.Opener(driver.Options{
			Name:       s.Driver,
			SampleRate: s.SampleRate,
			BufferSize: s.BufferSize,
			Logger:     slog.Default(),
		}),
	})
	n, err := ndsp.Init(p, ndsp.WithRecorder(m))
	if err != nil {
		return nil, err
	}
	mode, _ := s.Mode()
	n.SetOutputMode(mode)
	n.SetMasterVolume(s.MasterVolume)

	sess := &session{ndsp: n}
	if s.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
			ErrorHandling: promhttp.HTTPErrorOnError,
		}))
		sess.server = &http.Server{Addr: s.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := sess.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		slog.Info("serving metrics", "addr", s.MetricsAddr)
	}
	return sess, nil
}

func (s *session) Close() error {
	var err error
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		err = s.server.Shutdown(ctx)
	}
	return errors.Join(err, s.ndsp.Close())
}

// playFiles queues the files on one channel in order. A file whose format
// or rate differs from the one before waits for the queue to drain, since
// both are channel settings.
func playFiles(ctx context.Context, s *conf.Settings, files []string) error {
	sounds := make([]*loaders.Sound, 0, len(files))
	for _, f := range files {
		sound, err := loaders.LoadFile(f)
		if err != nil {
			return err
		}
		slog.Debug("loaded file", "path", f, "format", sound.Format, "rate", sound.SampleRate, "duration", sound.Duration())
		sounds = append(sounds, sound)
	}

	sess, err := startSession(s)
	if err != nil {
		return err
	}
	defer sess.Close()

	ch, err := sess.ndsp.Channel(uint8(s.Channel))
	if err != nil {
		return err
	}
	defer ch.Close()
	interp, _ := s.Interp()
	ch.SetInterpolation(interp)

	for {
		var waves []*ndsp.WaveInfo
		var prev *loaders.Sound
		for i, sound := range sounds {
			if prev == nil || prev.Format != sound.Format || prev.SampleRate != sound.SampleRate {
				if !waitIdle(ctx, ch) {
					return nil
				}
				ch.SetFormat(sound.Format)
				ch.SetSampleRate(float32(sound.SampleRate))
			}
			w := ndsp.NewWaveInfo(sound.Data, sound.Format, false)
			if err := ch.QueueWave(w); err != nil {
				return fmt.Errorf("%s: %w", files[i], err)
			}
			slog.Info("queued", "path", files[i], "sequence", ch.WaveSequenceID())
			waves = append(waves, w)
			prev = sound
		}
		done := waitIdle(ctx, ch)
		for _, w := range waves {
			_ = w.Close()
		}
		if !done || !s.Loop {
			return nil
		}
	}
}

// waitIdle returns true once the channel has nothing left to play, or
// false if ctx ends first.
func waitIdle(ctx context.Context, ch *ndsp.Channel) bool {
	t := time.NewTicker(pollInterval)
	defer t.Stop()
	for ch.IsPlaying() {
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
		}
	}
	return true
}

func playPlaylist(ctx context.Context, s *conf.Settings, folder, id string) error {
	if err := playlist.LoadFolder(folder); err != nil {
		return err
	}
	sess, err := startSession(s)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := playlist.Init(sess.ndsp, uint8(s.Channel)); err != nil {
		return err
	}
	defer playlist.Close()
	if err := playlist.Id(id).Play(); err != nil {
		return err
	}

	t := time.NewTicker(pollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if err := playlist.Process(); err != nil {
				return err
			}
		}
	}
}
