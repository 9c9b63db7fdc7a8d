package say

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"voicekit/core"
)

// Config holds settings for the macOS `say` command.
type Config struct {
	Binary       string `json:"binary"`
	Rate         int    `json:"rate"` // Speaking rate in words per minute.
	DefaultVoice string `json:"default_voice"`
}

// DefaultConfig returns a Config matching the system defaults.
func DefaultConfig() Config {
	return Config{
		Binary:       "say",
		Rate:         175,
		DefaultVoice: "Samantha",
	}
}

// SayTTSService wraps the macOS `say` command. It asks for little-endian
// 16-bit output so the browser gets a plain PCM WAV without a conversion step.
type SayTTSService struct {
	config Config
	logger *core.Logger
}

func NewSayTTSService(config Config, logger *core.Logger) *SayTTSService {
	defaults := DefaultConfig()
	if config.Binary == "" {
		config.Binary = defaults.Binary
	}
	if config.Rate <= 0 {
		config.Rate = defaults.Rate
	}
	if config.DefaultVoice == "" {
		config.DefaultVoice = defaults.DefaultVoice
	}
	return &SayTTSService{config: config, logger: logger}
}

func (s *SayTTSService) Engine() string { return "say" }

// Available reports whether the say binary can be found on this host.
func (s *SayTTSService) Available() bool {
	_, err := exec.LookPath(s.config.Binary)
	return err == nil
}

// Synthesize renders the text to a temporary WAV file and returns its bytes.
func (s *SayTTSService) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("say: empty text")
	}
	if voice == "" {
		voice = s.config.DefaultVoice
	}

	outPath := filepath.Join(os.TempDir(), fmt.Sprintf("say_%s.wav", uuid.NewString()))
	defer os.Remove(outPath)

	cmd := exec.CommandContext(ctx, s.config.Binary,
		"-v", voice,
		"-r", strconv.Itoa(s.config.Rate),
		"-o", outPath,
		"--data-format=LEI16@22050",
		text,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("say: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	audio, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("say: read output: %w", err)
	}
	return audio, nil
}
