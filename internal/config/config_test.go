package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	require.NoError(t, Load())
	assert.Equal(t, ":3000", DashboardAddr())
	assert.Equal(t, DefaultAPIURL, APIURL())
	assert.Equal(t, 10*time.Second, HTTPTimeout())
	assert.Empty(t, DBDSN())
	assert.Empty(t, MQTTBroker())
	assert.Equal(t, "grid", MQTTTopicPrefix())
}

func TestLoadFromEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("EMAPS_API_URL", "http://localhost:8090/v3/")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("MQTT_BROKER", "tcp://localhost:1883")

	require.NoError(t, Load())
	assert.Equal(t, "http://localhost:8090/v3", APIURL())
	assert.Equal(t, 3*time.Second, HTTPTimeout())
	assert.Equal(t, "tcp://localhost:1883", MQTTBroker())
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HTTP_TIMEOUT", "0s")

	assert.Error(t, Load())
}
