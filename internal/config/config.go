package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything read from the process environment. It is built
// once in main and handed to components at construction; nothing reads the
// environment after startup.
type Config struct {
	Port             string
	Environment      string
	AssemblyAIKey    string
	OpenAIKey        string
	MicInputDir      string
	AudioResponseDir string
}

// Load reads configuration from a .env file (when present) and the process
// environment. Missing provider keys are allowed; the pipeline degrades
// instead of refusing to start.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:             getenv("PORT", "5050"),
		Environment:      getenv("ENV", "local"),
		AssemblyAIKey:    os.Getenv("ASSEMBLYAI_API_KEY"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		MicInputDir:      getenv("MIC_INPUT_DIR", "mic_input"),
		AudioResponseDir: getenv("AUDIO_RESPONSE_DIR", "audio_responses"),
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
