package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker   = "localhost:9092"
	testMapboxToken = "pk.test-token"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://localhost:8080/api", cfg.APIBase)
	assert.Equal(t, 5*time.Second, cfg.StatsTimeout)
	assert.Equal(t, "@every 1m", cfg.StatsRefreshSchedule)
	assert.Equal(t, SourceReference, cfg.HotspotSource)
	assert.Empty(t, cfg.HotspotFile)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "hotspot-updates", cfg.KafkaHotspotTopic)
	assert.Equal(t, "hotspot-map", cfg.KafkaGroupID)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
	assert.Zero(t, cfg.DragThreshold)
	assert.False(t, cfg.RecenterOnSelect)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("API_BASE", "https://flood.example.org/api/")
	t.Setenv("STATS_TIMEOUT", "2s")
	t.Setenv("STATS_REFRESH_SCHEDULE", "*/5 * * * *")
	t.Setenv("HOTSPOT_SOURCE", "Kafka")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_HOTSPOT_TOPIC", "custom-hotspots")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")
	t.Setenv("DRAG_THRESHOLD", "4.5")
	t.Setenv("RECENTER_ON_SELECT", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://flood.example.org/api", cfg.APIBase, "trailing slash trimmed")
	assert.Equal(t, 2*time.Second, cfg.StatsTimeout)
	assert.Equal(t, "*/5 * * * *", cfg.StatsRefreshSchedule)
	assert.Equal(t, SourceKafka, cfg.HotspotSource)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-hotspots", cfg.KafkaHotspotTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
	assert.Equal(t, 4.5, cfg.DragThreshold)
	assert.True(t, cfg.RecenterOnSelect)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidStatsTimeout(t *testing.T) {
	t.Setenv("STATS_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATS_TIMEOUT")
}

func TestLoad_InvalidMapboxTimeout(t *testing.T) {
	t.Setenv("MAPBOX_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TIMEOUT")
}

func TestLoad_InvalidAPIBase(t *testing.T) {
	t.Setenv("API_BASE", "localhost/api")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE")
}

func TestLoad_InvalidRefreshSchedule(t *testing.T) {
	t.Setenv("STATS_REFRESH_SCHEDULE", "every now and then")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATS_REFRESH_SCHEDULE")
}

func TestLoad_EmptyRefreshScheduleDisablesRefresh(t *testing.T) {
	t.Setenv("STATS_REFRESH_SCHEDULE", " ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.StatsRefreshSchedule)
}

func TestLoad_FileSourceRequiresPath(t *testing.T) {
	t.Setenv("HOTSPOT_SOURCE", "file")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HOTSPOT_FILE")

	t.Setenv("HOTSPOT_FILE", "data/hotspots.yaml")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SourceFile, cfg.HotspotSource)
}

func TestLoad_UnknownSource(t *testing.T) {
	t.Setenv("HOTSPOT_SOURCE", "postgres")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HOTSPOT_SOURCE")
}

func TestLoad_InvalidDragThreshold(t *testing.T) {
	for _, v := range []string{"-1", "wide", "NaN", "+Inf", "inf"} {
		t.Setenv("DRAG_THRESHOLD", v)
		_, err := Load()
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "DRAG_THRESHOLD")
	}
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxTokenImpliesEnabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MapboxEnabled)
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}

func TestLoad_InvalidMapboxCacheSize(t *testing.T) {
	for _, v := range []string{"0", "-5", "lots"} {
		t.Setenv("MAPBOX_CACHE_SIZE", v)
		_, err := Load()
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "MAPBOX_CACHE_SIZE")
	}
}

func TestLoad_MapboxCacheSize(t *testing.T) {
	t.Setenv("MAPBOX_CACHE_SIZE", "250")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.MapboxCacheSize)
}
