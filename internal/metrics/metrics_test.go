package metrics_test

import (
	"testing"

	"github.com/SafeMPC/signin-service/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	require.NoError(t, err)

	m.SignInAttempt("success")
	m.SignInAttempt("success")
	m.Poll("completed", true)
	m.Poll("revoked", false)
	m.QRRender("failed")

	families, err := registry.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				values[family.GetName()+"/"+label.GetValue()] = metric.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, map[string]float64{
		"signin_requests_total/success":  2,
		"signin_polls_total/completed":   1,
		"signin_polls_total/other":       1,
		"signin_qr_renders_total/failed": 1,
	}, values)

	// registering twice on the same registry fails
	_, err = metrics.New(registry)
	assert.Error(t, err)
}

func TestNilService(t *testing.T) {
	var m *metrics.Service

	assert.NotPanics(t, func() {
		m.SignInAttempt("success")
		m.Poll("pending", true)
		m.QRRender("success")
	})
}
