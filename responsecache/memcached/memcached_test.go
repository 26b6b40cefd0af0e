package memcached

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestKey(t *testing.T) {
	t.Parallel()

	k := Key("https://images.example.com/photo-1?w=400")
	if !strings.HasPrefix(k, keyPrefix) {
		t.Errorf("key %q must start with %q", k, keyPrefix)
	}
	if len(k) != len(keyPrefix)+64 {
		t.Errorf("unexpected key length: %d", len(k))
	}
	if len(k) > 250 {
		t.Errorf("key must fit memcache limits: %d", len(k))
	}
	if k != Key("https://images.example.com/photo-1?w=400") {
		t.Error("key must be deterministic")
	}
	if k == Key("https://images.example.com/photo-1?w=800") {
		t.Error("different URLs must have different keys")
	}
}

func TestValueEncoding(t *testing.T) {
	t.Parallel()

	expiresAt := time.Unix(1735689600, 0)
	body := []byte("jpeg bytes")

	value := encodeValue(body, expiresAt)
	if len(value) != len(body)+4 {
		t.Fatalf("unexpected value length: %d", len(value))
	}
	body[0] = 'X'

	gotBody, gotExpiresAt, err := decodeValue(value)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte("jpeg bytes"), gotBody); diff != "" {
		t.Errorf("unexpected body (-want +got):\n%s", diff)
	}
	if !gotExpiresAt.Equal(expiresAt) {
		t.Errorf("unexpected expiry: %v (expected: %v)", gotExpiresAt, expiresAt)
	}
}

func TestDecodeValue_Corrupted(t *testing.T) {
	t.Parallel()

	for _, value := range [][]byte{nil, {0x01}, {0x01, 0x02, 0x03}} {
		if _, _, err := decodeValue(value); err != ErrCorruptedItem {
			t.Errorf("decodeValue(%v): unexpected error: %v", value, err)
		}
	}
}

func TestExpiration(t *testing.T) {
	t.Parallel()

	now := time.Unix(1735689600, 0)
	tests := []struct {
		name string
		ttl  time.Duration
		want int32
	}{
		{name: "seconds", ttl: 90 * time.Second, want: 90},
		{name: "rounded", ttl: 1500 * time.Millisecond, want: 2},
		{name: "30 days", ttl: 30 * 24 * time.Hour, want: 30 * 24 * 60 * 60},
		{name: "absolute", ttl: 31 * 24 * time.Hour, want: int32(now.Add(31 * 24 * time.Hour).Unix())},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := expiration(now, tt.ttl); got != tt.want {
				t.Errorf("unexpected expiration: %d (expected: %d)", got, tt.want)
			}
		})
	}
}
