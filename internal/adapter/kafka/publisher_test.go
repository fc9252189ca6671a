package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reefwatch/coral-alert-etl/internal/domain"
)

func TestSerializeSummary(t *testing.T) {
	generatedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	summary := domain.AlertSummary{
		SiteCode:         "GM",
		SiteName:         "Gili Matra",
		Date:             time.Date(2024, 5, 29, 0, 0, 0, 0, time.UTC),
		AlertLevel:       domain.AlertLevel2,
		AlertName:        "Alert Level 2",
		DHW:              9.4,
		HSP90:            1.8,
		BaselineDegraded: false,
		GeneratedAt:      generatedAt,
	}

	msg, err := serializeSummary(summary)
	require.NoError(t, err)

	assert.Equal(t, []byte("GM"), msg.Key)
	assert.Contains(t, string(msg.Value), `"site_name":"Gili Matra"`)
	assert.Contains(t, string(msg.Value), `"alert_level":4`)
	assert.Contains(t, string(msg.Value), `"alert_name":"Alert Level 2"`)
	assert.Contains(t, string(msg.Value), `"dhw":9.4`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "alert_level", msg.Headers[0].Key)
	assert.Equal(t, []byte("4"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(generatedAt.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeSummary_DegradedFlagCarried(t *testing.T) {
	msg, err := serializeSummary(domain.AlertSummary{
		SiteCode:         "GN",
		BaselineDegraded: true,
	})
	require.NoError(t, err)

	assert.Contains(t, string(msg.Value), `"baseline_degraded":true`)
}
