package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, ScoringRequestsTotal)
	assert.NotNil(t, ScoringDistribution)
	assert.NotNil(t, ScoringExhaustedTotal)
	assert.NotNil(t, ListImportsTotal)
	assert.NotNil(t, ListImportFailuresTotal)
	assert.NotNil(t, ListExportsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, WorkspacePersistsTotal)
	assert.NotNil(t, AuthLoginFailuresTotal)
	assert.NotNil(t, SessionsPurgedTotal)
}
