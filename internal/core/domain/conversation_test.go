package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptimisticTitle_ShortQuery(t *testing.T) {
	title := OptimisticTitle("what is hybrid search")

	assert.Equal(t, "what is hybrid search", title)
}

func TestOptimisticTitle_LongQuery(t *testing.T) {
	query := strings.Repeat("a", 50)

	title := OptimisticTitle(query)

	assert.Equal(t, strings.Repeat("a", 30)+"...", title)
}

func TestOptimisticTitle_ExactBoundary(t *testing.T) {
	query := strings.Repeat("b", 30)

	title := OptimisticTitle(query)

	assert.Equal(t, query, title)
}

func TestOptimisticTitle_MultibyteRunes(t *testing.T) {
	query := strings.Repeat("ü", 40)

	title := OptimisticTitle(query)

	// Truncation counts runes, never splitting a multi-byte character.
	assert.Equal(t, strings.Repeat("ü", 30)+"...", title)
}

func TestHealthStatus_Healthy(t *testing.T) {
	assert.True(t, HealthStatus{Status: "healthy"}.Healthy())
	assert.False(t, HealthStatus{Status: "degraded"}.Healthy())
	assert.False(t, HealthStatus{}.Healthy())
}
