package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeedMessage(t *testing.T) {
	msgTime := time.Date(2025, 1, 4, 10, 30, 0, 0, time.UTC)

	t.Run("full record", func(t *testing.T) {
		data := []byte(`{"id":1,"location":" ITO Crossing ","ward":"Ward 12","zone":"Central Delhi","severity":"CRITICAL","waterLevel":85,"updatedAt":"2025-01-04T10:25:00Z","coordinates":{"lat":28.6289,"lng":77.2416}}`)
		upd, err := ParseFeedMessage(FeedMessage{Value: data, Timestamp: msgTime})

		require.NoError(t, err)
		assert.False(t, upd.Removed)
		h := upd.Hotspot
		assert.Equal(t, 1, h.ID)
		assert.Equal(t, "ITO Crossing", h.Location)
		assert.Equal(t, SeverityCritical, h.Severity)
		assert.Equal(t, 85.0, h.WaterLevel)
		assert.Equal(t, time.Date(2025, 1, 4, 10, 25, 0, 0, time.UTC), h.UpdatedAt)
		assert.Equal(t, Coordinates{Lat: 28.6289, Lng: 77.2416}, h.Coordinates)
	})

	t.Run("updatedAt falls back to message timestamp", func(t *testing.T) {
		data := []byte(`{"id":2,"location":"Minto Bridge","severity":"high","waterLevel":72}`)
		upd, err := ParseFeedMessage(FeedMessage{Value: data, Timestamp: msgTime})

		require.NoError(t, err)
		assert.Equal(t, msgTime, upd.Hotspot.UpdatedAt)
		assert.True(t, upd.Hotspot.Coordinates.IsZero())
	})

	t.Run("updatedAt falls back to clock", func(t *testing.T) {
		now := time.Date(2025, 1, 4, 11, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(now))
		defer SetClock(nil)

		data := []byte(`{"id":2,"location":"Minto Bridge","severity":"high","waterLevel":72}`)
		upd, err := ParseFeedMessage(FeedMessage{Value: data})

		require.NoError(t, err)
		assert.Equal(t, now, upd.Hotspot.UpdatedAt)
	})

	t.Run("removal", func(t *testing.T) {
		upd, err := ParseFeedMessage(FeedMessage{Value: []byte(`{"id":4,"removed":true}`)})

		require.NoError(t, err)
		assert.True(t, upd.Removed)
		assert.Equal(t, 4, upd.Hotspot.ID)
	})

	t.Run("removal without id", func(t *testing.T) {
		_, err := ParseFeedMessage(FeedMessage{Value: []byte(`{"removed":true}`)})
		require.ErrorIs(t, err, ErrInvalidHotspot)
	})

	t.Run("unknown severity", func(t *testing.T) {
		_, err := ParseFeedMessage(FeedMessage{Value: []byte(`{"id":3,"location":"X","severity":"extreme","waterLevel":10}`)})
		require.ErrorIs(t, err, ErrUnknownSeverity)
		require.ErrorIs(t, err, ErrInvalidHotspot)
	})

	t.Run("water level out of range", func(t *testing.T) {
		_, err := ParseFeedMessage(FeedMessage{Value: []byte(`{"id":3,"location":"X","severity":"low","waterLevel":120}`)})
		require.ErrorIs(t, err, ErrInvalidHotspot)
		assert.Contains(t, err.Error(), "water level")
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseFeedMessage(FeedMessage{Value: []byte(`{not json`)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse feed message")
	})
}

func TestValidateCollection(t *testing.T) {
	now := time.Date(2025, 1, 4, 11, 0, 0, 0, time.UTC)

	t.Run("reference data is valid", func(t *testing.T) {
		require.NoError(t, ValidateCollection(ReferenceHotspots(now)))
	})

	t.Run("duplicate ids", func(t *testing.T) {
		hs := ReferenceHotspots(now)
		hs[3].ID = hs[0].ID
		err := ValidateCollection(hs)
		require.ErrorIs(t, err, ErrInvalidHotspot)
		assert.Contains(t, err.Error(), "duplicate id 1")
	})

	t.Run("coordinates are not range checked", func(t *testing.T) {
		hs := ReferenceHotspots(now)
		hs[0].Coordinates = Coordinates{Lat: 123, Lng: -999}
		require.NoError(t, ValidateCollection(hs))
	})
}

func TestValidate_NonFinite(t *testing.T) {
	base := ReferenceHotspots(time.Date(2025, 1, 4, 11, 0, 0, 0, time.UTC))[0]
	cases := map[string]func(h *Hotspot){
		"nan water level": func(h *Hotspot) { h.WaterLevel = math.NaN() },
		"inf water level": func(h *Hotspot) { h.WaterLevel = math.Inf(1) },
		"nan lat":         func(h *Hotspot) { h.Coordinates.Lat = math.NaN() },
		"inf lng":         func(h *Hotspot) { h.Coordinates.Lng = math.Inf(-1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			h := base
			mutate(&h)
			require.ErrorIs(t, Validate(h), ErrInvalidHotspot)
		})
	}
}

func TestSeverity(t *testing.T) {
	sev, err := ParseSeverity("  High ")
	require.NoError(t, err)
	assert.Equal(t, SeverityHigh, sev)

	_, err = ParseSeverity("severe")
	require.ErrorIs(t, err, ErrUnknownSeverity)

	for i := 1; i < len(Severities); i++ {
		assert.Less(t, Severities[i-1].Rank(), Severities[i].Rank())
	}

	assert.Equal(t, "#ef4444", SeverityCritical.Color())
	assert.Equal(t, "#22c55e", SeverityLow.Color())
	assert.Equal(t, "#6b7280", Severity("bogus").Color())
}

func TestParseSeverityFilter(t *testing.T) {
	cases := map[string]SeverityFilter{
		"":          SeverityAll,
		"all":       SeverityAll,
		"ALL":       SeverityAll,
		"critical":  SeverityFilter(SeverityCritical),
		" Medium  ": SeverityFilter(SeverityMedium),
	}
	for in, want := range cases {
		got, err := ParseSeverityFilter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSeverityFilter("none")
	require.ErrorIs(t, err, ErrUnknownSeverity)

	assert.True(t, SeverityAll.Matches(SeverityLow))
	assert.True(t, SeverityFilter(SeverityHigh).Matches(SeverityHigh))
	assert.False(t, SeverityFilter(SeverityHigh).Matches(SeverityCritical))
}

func TestLastUpdated(t *testing.T) {
	now := time.Date(2025, 1, 4, 11, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{time.Minute, "1 min ago"},
		{5 * time.Minute, "5 mins ago"},
		{2 * time.Hour, "2 hours ago"},
		{49 * time.Hour, "2 days ago"},
	}
	for _, tc := range cases {
		h := Hotspot{UpdatedAt: now.Add(-tc.ago)}
		assert.Equal(t, tc.want, h.LastUpdated(now))
	}
	assert.Equal(t, "unknown", Hotspot{}.LastUpdated(now))
}

func TestMergeStats(t *testing.T) {
	fetched := time.Date(2025, 1, 4, 11, 0, 0, 0, time.UTC)

	got := MergeStats(StatsPayload{TotalHotspots: 60, CriticalZones: 0}, fetched)
	assert.Equal(t, 60, got.TotalHotspots)
	assert.Equal(t, DefaultActiveAlerts, got.ActiveAlerts, "missing field keeps default")
	assert.Equal(t, DefaultCriticalZones, got.CriticalZones, "zero field keeps default")
	assert.Equal(t, "upstream", got.Source)
	assert.Equal(t, fetched, got.FetchedAt)

	got = MergeStats(StatsPayload{TotalHotspots: 52.6, ActiveAlerts: 0.4, CriticalZones: -3}, fetched)
	assert.Equal(t, 53, got.TotalHotspots, "fractions round to the nearest count")
	assert.Equal(t, 0, got.ActiveAlerts, "a non-zero fraction is not treated as missing")
	assert.Equal(t, 0, got.CriticalZones, "negative counts clamp to zero")

	got = MergeStats(StatsPayload{TotalHotspots: 1e300}, fetched)
	assert.Equal(t, math.MaxInt32, got.TotalHotspots)

	def := DefaultStats()
	assert.Equal(t, 47, def.TotalHotspots)
	assert.Equal(t, 12, def.ActiveAlerts)
	assert.Equal(t, 5, def.CriticalZones)
	assert.Equal(t, "default", def.Source)
}
