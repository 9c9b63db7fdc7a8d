package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"voicekit/core"
)

// SynthesisService converts text to a WAV payload using one engine.
type SynthesisService interface {
	Engine() string
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// TTSHandler fronts a primary synthesis engine with an ordered list of
// fallbacks tried when the primary fails. Output is cached on disk for the
// retention window. Playback speed is applied client-side via playbackRate,
// which preserves pitch better than resampling here.
type TTSHandler struct {
	Service        SynthesisService
	BackupServices []SynthesisService
	config         TTSConfig
	logger         *core.Logger
}

func NewTTSHandler(service SynthesisService, config TTSConfig, logger *core.Logger) *TTSHandler {
	defaults := DefaultConfig()
	if config.CacheDir == "" {
		config.CacheDir = defaults.CacheDir
	}
	if config.Retention <= 0 {
		config.Retention = defaults.Retention
	}
	return &TTSHandler{Service: service, config: config, logger: logger}
}

// WithBackupService appends a fallback engine tried after the ones already
// registered.
func (h *TTSHandler) WithBackupService(service SynthesisService) *TTSHandler {
	h.BackupServices = append(h.BackupServices, service)
	return h
}

// Engines lists the configured engine names, primary first.
func (h *TTSHandler) Engines() []string {
	if h == nil || h.Service == nil {
		return nil
	}
	out := []string{h.Service.Engine()}
	for _, backup := range h.BackupServices {
		out = append(out, backup.Engine())
	}
	return out
}

// Synthesize runs the primary engine, falling back in order when an engine
// fails. The synthesized audio is written to the on-disk cache; stale cache
// entries are removed first.
func (h *TTSHandler) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if h == nil || h.Service == nil {
		return nil, fmt.Errorf("no synthesis engine configured")
	}
	if voice == "" {
		voice = h.config.DefaultVoice
	}
	h.cleanupCache()

	services := append([]SynthesisService{h.Service}, h.BackupServices...)
	var lastErr error
	for _, service := range services {
		audio, err := service.Synthesize(ctx, text, voice)
		if err != nil {
			h.logger.With(map[string]any{"engine": service.Engine(), "error": err}).Warn("synthesis failed, trying next engine")
			lastErr = err
			continue
		}
		h.cacheAudio(audio)
		return audio, nil
	}
	return nil, fmt.Errorf("all synthesis engines failed: %w", lastErr)
}

// cacheAudio writes the payload into the cache directory. Failures only log;
// the cache is not part of the response path.
func (h *TTSHandler) cacheAudio(audio []byte) {
	if err := os.MkdirAll(h.config.CacheDir, 0o755); err != nil {
		h.logger.With(map[string]any{"dir": h.config.CacheDir, "error": err}).Warn("cache dir unavailable")
		return
	}
	path := filepath.Join(h.config.CacheDir, fmt.Sprintf("tts_%s.wav", uuid.NewString()))
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		h.logger.With(map[string]any{"path": path, "error": err}).Warn("cache write failed")
	}
}

// cleanupCache removes cached audio older than the retention window.
func (h *TTSHandler) cleanupCache() {
	entries, err := os.ReadDir(h.config.CacheDir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-h.config.Retention)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".wav" {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		_ = os.Remove(filepath.Join(h.config.CacheDir, entry.Name()))
	}
}
