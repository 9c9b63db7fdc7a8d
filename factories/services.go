package factories

import (
	"fmt"

	"voicekit/core"
	ttshandler "voicekit/handlers/tts"
	azurellm "voicekit/services/azure/llm"
	bravesearch "voicekit/services/brave/search"
	heygenavatar "voicekit/services/heygen/avatar"
	pipertts "voicekit/services/piper/tts"
	saytts "voicekit/services/say/tts"
)

// Capabilities describes which collaborators are usable, resolved once at
// startup instead of probed ad hoc per request. A missing credential or
// binary degrades the feature to "not configured"; it never crashes the
// process.
type Capabilities struct {
	Completion bool     `json:"completion"`
	Search     bool     `json:"search"`
	Avatar     bool     `json:"avatar"`
	Engines    []string `json:"engines"` // Available synthesis engines, primary first.
}

// Services bundles every constructed provider client plus the resolved
// capability descriptor. Synthesis is nil when no engine is available.
type Services struct {
	Completion   *azurellm.AzureLLMService
	Search       *bravesearch.BraveSearchService
	Avatar       *heygenavatar.AvatarClient
	Synthesis    *ttshandler.TTSHandler
	Capabilities Capabilities
}

// BuildServices constructs the provider clients from the loaded settings and
// resolves the capability descriptor.
func BuildServices(cfg SettingsConfig, logger *core.Logger) (*Services, error) {
	completion := azurellm.NewAzureLLMService(cfg.Completion, logger)
	searchService := bravesearch.NewBraveSearchService(cfg.Search, logger)
	avatarClient := heygenavatar.NewAvatarClient(cfg.Avatar)

	synthesis, err := buildSynthesis(cfg.Synthesis, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		Completion: completion,
		Search:     searchService,
		Avatar:     avatarClient,
		Synthesis:  synthesis,
		Capabilities: Capabilities{
			Completion: completion.Configured(),
			Search:     searchService.Configured(),
			Avatar:     avatarClient.Configured(),
			Engines:    synthesis.Engines(),
		},
	}, nil
}

// buildSynthesis wires the available engines into a TTS handler, primary
// first with the rest as fallbacks. Returns nil when no configured engine
// exists on this host.
func buildSynthesis(cfg SynthesisConfig, logger *core.Logger) (*ttshandler.TTSHandler, error) {
	var services []ttshandler.SynthesisService
	for _, name := range cfg.Order {
		switch name {
		case "piper":
			service := pipertts.NewPiperTTSService(cfg.Piper, logger)
			if !service.Available() {
				logger.With(map[string]any{"engine": name}).Warn("synthesis engine binary not found, skipping")
				continue
			}
			services = append(services, service)
		case "say":
			service := saytts.NewSayTTSService(cfg.Say, logger)
			if !service.Available() {
				logger.With(map[string]any{"engine": name}).Warn("synthesis engine binary not found, skipping")
				continue
			}
			services = append(services, service)
		default:
			return nil, fmt.Errorf("synthesis: unknown engine %q", name)
		}
	}

	if len(services) == 0 {
		return nil, nil
	}
	handler := ttshandler.NewTTSHandler(services[0], cfg.Handler, logger)
	for _, fallback := range services[1:] {
		handler.WithBackupService(fallback)
	}
	return handler, nil
}
