// Command kira plays a streaming sound from a URL through portaudio,
// wiring the full pipeline this module provides: a decodesrc.HTTPSource
// feeds an engine.NewStreamingSound, registered on an engine.Mixer
// driven by the portaudio backend.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	pa "github.com/gordonklaus/portaudio"

	"github.com/Alexander-D-Karpov/amp/internal/backend/portaudio"
	"github.com/Alexander-D-Karpov/amp/internal/config"
	"github.com/Alexander-D-Karpov/amp/internal/decodesrc"
	"github.com/Alexander-D-Karpov/amp/internal/diagnostics"
	"github.com/Alexander-D-Karpov/amp/internal/engine"
	"github.com/Alexander-D-Karpov/amp/pkg/types"
)

func main() {
	url := flag.String("url", "", "URL of an MP3 to stream and play")
	configPath := flag.String("config", "", "path to a config file (defaults to platform config dir)")
	flag.Parse()

	if *url == "" {
		log.Fatal("kira: -url is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("kira: load config: %v", err)
	}

	decoder, err := decodesrc.Open(*url, decodesrc.Config{
		RequestsPerSecond: cfg.Network.RequestsPerSecond,
		BurstSize:         cfg.Network.BurstSize,
		Timeout:           time.Duration(cfg.Network.Timeout) * time.Second,
		Retries:           cfg.Network.Retries,
		UserAgent:         cfg.Network.UserAgent,
		Debug:             cfg.Debug,
	}, 4096)
	if err != nil {
		log.Fatalf("kira: open source: %v", err)
	}
	defer decoder.Close()

	settings := engine.DefaultStreamingSoundSettings()
	settings.CommandCapacity = cfg.Audio.CommandCapacity
	settings.ErrorCapacity = cfg.Audio.ErrorCapacity

	sound, handle := engine.NewStreamingSound(decoder, settings, cfg.Debug)

	mixer := engine.NewMixer()
	mixer.Add(sound)

	var diagSink *diagnostics.Sink
	if cfg.Diagnostics.Enabled {
		diagSink, err = diagnostics.Open(cfg.Diagnostics.DBPath, cfg.Debug)
		if err != nil {
			log.Fatalf("kira: open diagnostics sink: %v", err)
		}
		defer diagSink.Close()
	}

	if err := pa.Initialize(); err != nil {
		log.Fatalf("kira: portaudio init: %v", err)
	}
	defer pa.Terminate()

	backend, err := portaudio.Open(mixer, uint32(cfg.Audio.SampleRate), cfg.Audio.BufferSize)
	if err != nil {
		log.Fatalf("kira: open backend: %v", err)
	}
	defer backend.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	log.Printf("kira: playing %s (sample rate %d)", *url, cfg.Audio.SampleRate)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var decodeErrors int64
	for {
		select {
		case <-sig:
			log.Print("kira: shutting down")
			return
		case <-ticker.C:
			if handle.State() == types.StateStopped {
				log.Print("kira: playback finished")
				return
			}
			log.Printf("kira: position=%.1fs", handle.Position())
			if decodeErr, ok := handle.NextError(); ok {
				decodeErrors++
				log.Printf("kira: decode error: %v", decodeErr)
			}
			if diagSink != nil {
				snap := diagnostics.Snapshot{
					SoundID:      *url,
					Underruns:    sound.Underruns(),
					DecodeErrors: decodeErrors,
					PositionSecs: handle.Position(),
				}
				if err := diagSink.Flush(snap); err != nil {
					log.Printf("kira: diagnostics flush: %v", err)
				}
			}
		}
	}
}
