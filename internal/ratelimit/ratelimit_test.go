package ratelimit

import (
	"testing"
)

func TestAllow_BurstThenDeny(t *testing.T) {
	krl := New(1, 2)

	if !krl.Allow("1.2.3.4") {
		t.Error("first request should pass")
	}
	if !krl.Allow("1.2.3.4") {
		t.Error("second request within burst should pass")
	}
	if krl.Allow("1.2.3.4") {
		t.Error("third request should be denied")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	krl := New(1, 1)

	if !krl.Allow("1.2.3.4") {
		t.Error("first key should pass")
	}
	if krl.Allow("1.2.3.4") {
		t.Error("first key should now be limited")
	}
	if !krl.Allow("5.6.7.8") {
		t.Error("second key has its own bucket")
	}
}
