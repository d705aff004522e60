package testkit

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Settings locate a running system for end-to-end tests
type Settings struct {
	Mode            Mode
	GatewayURL      string
	AuthURL         string
	ClientID        string
	RedirectURI     string
	RedisURL        string
	EventsChannel   string
	RefreshSchedule string
}

// LoadSettings reads ROCOCO_TEST_* variables, honouring a .env file in the
// working directory. Defaults match a local docker compose setup.
func LoadSettings() (*Settings, error) {
	_ = godotenv.Load()

	s := &Settings{
		GatewayURL:      getEnv("ROCOCO_TEST_GATEWAY_URL", "http://127.0.0.1:8080"),
		AuthURL:         getEnv("ROCOCO_TEST_AUTH_URL", "http://127.0.0.1:9000"),
		ClientID:        getEnv("ROCOCO_TEST_CLIENT_ID", "client"),
		RedirectURI:     getEnv("ROCOCO_TEST_REDIRECT_URI", "http://127.0.0.1:3000/authorized"),
		RedisURL:        getEnv("ROCOCO_TEST_REDIS_URL", "redis://localhost:6379/0"),
		EventsChannel:   getEnv("ROCOCO_TEST_EVENTS_CHANNEL", "rococo.users"),
		RefreshSchedule: getEnv("ROCOCO_TEST_REFRESH_SCHEDULE", DefaultRefreshSchedule),
	}
	mode, err := ParseMode(getEnv("ROCOCO_TEST_MODE", string(ModeAPI)))
	if err != nil {
		return nil, err
	}
	s.Mode = mode
	return s, nil
}

// LoginConfig is the public client configuration of these settings
func (s *Settings) LoginConfig() LoginConfig {
	return LoginConfig{
		AuthURL:     s.AuthURL,
		ClientID:    s.ClientID,
		RedirectURI: s.RedirectURI,
	}
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}
