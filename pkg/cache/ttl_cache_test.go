package cache

import (
	"testing"
	"time"
)

func TestTTLCache_UsedAndMark(t *testing.T) {
	c := NewTTLCache()
	key := "geo:allowed:203.0.113.7"
	if c.Used(key) {
		t.Fatalf("key should not be used initially")
	}
	c.Mark(key, 50*time.Millisecond)
	if !c.Used(key) {
		t.Fatalf("key should be marked as used within TTL")
	}
	time.Sleep(60 * time.Millisecond)
	if c.Used(key) {
		t.Fatalf("key should expire after TTL")
	}
}
