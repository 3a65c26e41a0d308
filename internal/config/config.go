package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultAPIURL is the Electricity Maps v3 base URL.
const DefaultAPIURL = "https://api.electricitymap.org/v3"

func Load() error {
	// Dashboard
	viper.SetDefault("DASHBOARD_ADDR", ":3000")
	viper.SetDefault("GRIDSIM_ADDR", ":8090")

	// Upstream API
	viper.SetDefault("EMAPS_API_URL", DefaultAPIURL)
	viper.SetDefault("HTTP_TIMEOUT", "10s")

	// Optional lookup observers, disabled when empty
	viper.SetDefault("DB_DSN", "")
	viper.SetDefault("MQTT_BROKER", "")
	viper.SetDefault("MQTT_TOPIC_PREFIX", "grid")
	viper.SetDefault("MQTT_CLIENT_ID", "carbon-dashboard")

	// Logging
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	viper.AutomaticEnv()

	if HTTPTimeout() <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be a positive duration, got %q", viper.GetString("HTTP_TIMEOUT"))
	}
	if APIURL() == "" {
		return fmt.Errorf("EMAPS_API_URL must not be empty")
	}
	return nil
}

func DashboardAddr() string      { return viper.GetString("DASHBOARD_ADDR") }
func GridsimAddr() string        { return viper.GetString("GRIDSIM_ADDR") }
func APIURL() string             { return strings.TrimRight(viper.GetString("EMAPS_API_URL"), "/") }
func HTTPTimeout() time.Duration { return viper.GetDuration("HTTP_TIMEOUT") }
func DBDSN() string              { return viper.GetString("DB_DSN") }
func MQTTBroker() string         { return viper.GetString("MQTT_BROKER") }
func MQTTTopicPrefix() string    { return viper.GetString("MQTT_TOPIC_PREFIX") }
func MQTTClientID() string       { return viper.GetString("MQTT_CLIENT_ID") }
func LogLevel() string           { return viper.GetString("LOG_LEVEL") }
func LogFormat() string          { return viper.GetString("LOG_FORMAT") }

// SetupLogging configures the global zerolog logger from LOG_LEVEL and LOG_FORMAT.
func SetupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(strings.ToLower(LogLevel()))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if LogFormat() == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
