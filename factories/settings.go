package factories

import (
	"encoding/json"
	"fmt"
	"os"

	chathandler "voicekit/handlers/chat"
	ttshandler "voicekit/handlers/tts"
	azurellm "voicekit/services/azure/llm"
	bravesearch "voicekit/services/brave/search"
	heygenavatar "voicekit/services/heygen/avatar"
	pipertts "voicekit/services/piper/tts"
	saytts "voicekit/services/say/tts"
)

// ServerConfig controls the HTTP bind address.
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// SynthesisConfig selects and orders the local speech engines. The first
// engine in Order that is available on this host becomes primary; the rest
// become fallbacks. Unavailable engines are skipped at build time.
type SynthesisConfig struct {
	Order   []string             `json:"order"`
	Handler ttshandler.TTSConfig `json:"handler"`
	Piper   pipertts.Config      `json:"piper"`
	Say     saytts.Config        `json:"say"`
}

// SettingsConfig is the top-level config loaded from settings.json. Secrets
// are injected afterwards from env vars via InjectAPIKeys, never stored in
// the file.
type SettingsConfig struct {
	Server     ServerConfig           `json:"server"`
	Chat       chathandler.ChatConfig `json:"chat"`
	Completion azurellm.Config        `json:"completion"`
	Search     bravesearch.Config     `json:"search"`
	Avatar     heygenavatar.Config    `json:"avatar"`
	Synthesis  SynthesisConfig        `json:"synthesis"`
}

// DefaultSettingsConfig returns a SettingsConfig pre-filled with every
// component's defaults.
func DefaultSettingsConfig() SettingsConfig {
	return SettingsConfig{
		Server:     ServerConfig{Host: "127.0.0.1", Port: 8000},
		Chat:       chathandler.DefaultConfig(),
		Completion: azurellm.DefaultConfig(),
		Search:     bravesearch.DefaultConfig(),
		Synthesis: SynthesisConfig{
			Order:   []string{"piper", "say"},
			Handler: ttshandler.DefaultConfig(),
			Piper:   pipertts.DefaultConfig(),
			Say:     saytts.DefaultConfig(),
		},
	}
}

// SettingsConfigFromJSON parses a JSON blob into a SettingsConfig, starting
// from DefaultSettingsConfig so that fields absent from the JSON retain
// their defaults.
func SettingsConfigFromJSON(data []byte) (SettingsConfig, error) {
	cfg := DefaultSettingsConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return SettingsConfig{}, fmt.Errorf("settings: %w", err)
	}
	return cfg, nil
}

// SettingsConfigFromFile reads and parses a SettingsConfig from a JSON file.
func SettingsConfigFromFile(path string) (SettingsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultSettingsConfig(), fmt.Errorf("settings: read %q: %w", path, err)
	}
	return SettingsConfigFromJSON(data)
}

// APIKeys holds provider credentials loaded from env vars. Pass to
// InjectAPIKeys after loading settings.
type APIKeys struct {
	AzureEndpoint   string
	AzureKey        string
	AzureDeployment string
	AzureAPIVersion string
	Brave           string
	HeyGen          string
}

// InjectAPIKeys overlays credentials onto the loaded settings. Empty env
// values leave whatever the settings file carried.
func (c *SettingsConfig) InjectAPIKeys(keys APIKeys) {
	if keys.AzureEndpoint != "" {
		c.Completion.Endpoint = keys.AzureEndpoint
	}
	if keys.AzureKey != "" {
		c.Completion.APIKey = keys.AzureKey
	}
	if keys.AzureDeployment != "" {
		c.Completion.Deployment = keys.AzureDeployment
	}
	if keys.AzureAPIVersion != "" {
		c.Completion.APIVersion = keys.AzureAPIVersion
	}
	if keys.Brave != "" {
		c.Search.APIKey = keys.Brave
	}
	if keys.HeyGen != "" {
		c.Avatar.APIKey = keys.HeyGen
	}
}
