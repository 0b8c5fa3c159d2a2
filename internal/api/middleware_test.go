package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPLimiter_EvictsIdleClients(t *testing.T) {
	clock := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	l := newIPLimiter(1, 1)
	l.now = func() time.Time { return clock }

	l.get("10.0.0.1")
	l.get("10.0.0.2")
	assert.Len(t, l.clients, 2)

	clock = clock.Add(limiterIdleTTL / 2)
	l.get("10.0.0.2")

	clock = clock.Add(limiterIdleTTL / 2)
	l.get("10.0.0.3")
	assert.NotContains(t, l.clients, "10.0.0.1")
	assert.Contains(t, l.clients, "10.0.0.2")
	assert.Contains(t, l.clients, "10.0.0.3")

	clock = clock.Add(2 * limiterIdleTTL)
	l.get("10.0.0.4")
	assert.Len(t, l.clients, 1)
}

func TestIPLimiter_KeepsBucketWhileActive(t *testing.T) {
	clock := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	l := newIPLimiter(0.001, 1)
	l.now = func() time.Time { return clock }

	assert.True(t, l.get("10.0.0.1").Allow())
	clock = clock.Add(time.Minute)
	assert.False(t, l.get("10.0.0.1").Allow(), "bucket survives while the client is active")
}
