package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"voicekit/core"
	"voicekit/factories"
	"voicekit/handlers/conversation"
	"voicekit/transports/httpapi"

	chathandler "voicekit/handlers/chat"

	"github.com/joho/godotenv"
)

func main() {
	var settingsPath string
	flag.StringVar(&settingsPath, "settings", "", "path to settings.json (defaults to $SETTINGS_PATH or ./settings.json)")
	flag.Parse()

	logger := core.GetLogger()

	if err := godotenv.Load(".env"); err != nil {
		logger.With(map[string]any{"error": err}).Warn("No .env file found or failed to load")
	}

	if settingsPath == "" {
		settingsPath = getEnv("SETTINGS_PATH", "./settings.json")
	}
	settings, err := factories.SettingsConfigFromFile(settingsPath)
	if err != nil {
		logger.With(map[string]any{"path": settingsPath, "error": err}).Warn("failed to load settings, using defaults")
		settings = factories.DefaultSettingsConfig()
	}
	settings.InjectAPIKeys(factories.APIKeys{
		AzureEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AzureKey:        getEnv("AZURE_OPENAI_KEY", ""),
		AzureDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT", ""),
		AzureAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", ""),
		Brave:           getEnv("BRAVE_API_KEY", ""),
		HeyGen:          getEnv("HEYGEN_API_KEY", ""),
	})
	if host := getEnv("HOST", ""); host != "" {
		settings.Server.Host = host
	}
	settings.Server.Port = getEnvAsInt("PORT", settings.Server.Port)

	services, err := factories.BuildServices(settings, logger)
	if err != nil {
		logger.With(map[string]any{"error": err}).Fatal("failed to build services")
	}
	logger.With(map[string]any{
		"completion": services.Capabilities.Completion,
		"search":     services.Capabilities.Search,
		"avatar":     services.Capabilities.Avatar,
		"engines":    services.Capabilities.Engines,
	}).Info("resolved capabilities")

	sessions := conversation.NewSessionTable()
	chat := chathandler.NewChatHandler(services.Completion, services.Search, settings.Chat, logger)

	server := httpapi.NewServer(
		httpapi.Config{Host: settings.Server.Host, Port: settings.Server.Port},
		chat,
		sessions,
		services.Synthesis,
		services.Avatar,
		services.Capabilities,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	if err := server.ListenAndServe(ctx); err != nil {
		logger.With(map[string]any{"error": err}).Error("server stopped")
	}
	logger.Info("Shutting down...")
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer with a default fallback
func getEnvAsInt(key string, defaultValue int) int {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultValue
	}
	return val
}
