package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow_BurstThenDeny(t *testing.T) {
	krl := New(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, krl.Allow("1.2.3.4"), "burst request %d should pass", i)
	}
	assert.False(t, krl.Allow("1.2.3.4"), "request beyond burst should be denied")
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	krl := New(1, 1)

	assert.True(t, krl.Allow("alice"))
	assert.False(t, krl.Allow("alice"))
	assert.True(t, krl.Allow("bob"), "a different key gets its own bucket")
}
