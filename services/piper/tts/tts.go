package piper

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"voicekit/core"
)

// Config holds piper CLI settings.
type Config struct {
	Binary       string `json:"binary"`        // Path to the piper executable.
	ModelDir     string `json:"model_dir"`     // Directory holding .onnx voice models; voices resolve relative to it.
	DefaultVoice string `json:"default_voice"` // Voice model used when the request leaves it empty.
}

// DefaultConfig returns a Config that expects piper on PATH.
func DefaultConfig() Config {
	return Config{
		Binary:       "piper",
		DefaultVoice: "en_US-lessac-medium",
	}
}

// PiperTTSService shells out to the piper CLI for local neural synthesis.
type PiperTTSService struct {
	config Config
	logger *core.Logger
}

func NewPiperTTSService(config Config, logger *core.Logger) *PiperTTSService {
	defaults := DefaultConfig()
	if config.Binary == "" {
		config.Binary = defaults.Binary
	}
	if config.DefaultVoice == "" {
		config.DefaultVoice = defaults.DefaultVoice
	}
	return &PiperTTSService{config: config, logger: logger}
}

func (s *PiperTTSService) Engine() string { return "piper" }

// Available reports whether the piper binary can be found on this host.
func (s *PiperTTSService) Available() bool {
	_, err := exec.LookPath(s.config.Binary)
	return err == nil
}

// Synthesize runs piper with the text on stdin and reads back the WAV file.
func (s *PiperTTSService) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("piper: empty text")
	}
	if voice == "" {
		voice = s.config.DefaultVoice
	}
	model := voice
	if s.config.ModelDir != "" && !strings.HasSuffix(model, ".onnx") {
		model = filepath.Join(s.config.ModelDir, model+".onnx")
	}

	outPath := filepath.Join(os.TempDir(), fmt.Sprintf("piper_%s.wav", uuid.NewString()))
	defer os.Remove(outPath)

	cmd := exec.CommandContext(ctx, s.config.Binary, "--model", model, "--output_file", outPath)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("piper: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	audio, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("piper: read output: %w", err)
	}
	return audio, nil
}
