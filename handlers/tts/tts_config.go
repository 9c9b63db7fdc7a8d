package tts

import "time"

type TTSConfig struct {
	CacheDir     string `json:"cache_dir"`     // Directory for transient synthesized audio files.
	DefaultVoice string `json:"default_voice"` // Voice used when the request leaves it empty.

	// Retention is how long cached audio files survive. Files older than this
	// are deleted opportunistically on each synthesis call.
	Retention time.Duration `json:"-"`
}

// DefaultConfig returns a TTSConfig with sensible defaults.
func DefaultConfig() TTSConfig {
	return TTSConfig{
		CacheDir:  "cache",
		Retention: time.Hour,
	}
}
