// Package memcached provides a response cache backed by a memcached cluster.
package memcached

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"
	"lukechampine.com/blake3"

	asyncimage "github.com/karupanerura/async-image"
)

const (
	// MinExpiry is the shortest lifetime given to a stored item.
	MinExpiry = time.Second

	keyPrefix = "asyncimage-v1|"

	// memcached reads relative expirations longer than this as absolute unix times
	maxRelativeExpiry = 30 * 24 * time.Hour
)

// ErrCorruptedItem is returned when an item does not carry a deadline prefix.
var ErrCorruptedItem = errors.New("corrupted memcache item")

// Config defines how a Cache should be constructed.
type Config struct {
	Timeout      time.Duration
	MaxIdleConns int
	Logger       log.Logger
	Clock        asyncimage.Clock
}

// Cache is a response cache that stores bodies in memcached.
//
// The memcached client does not report the expiry of an item on get, so every
// value carries its deadline as a 4-byte big-endian unix time prefix.
type Cache struct {
	client *memcache.Client
	logger log.Logger
	clock  asyncimage.Clock
}

var _ asyncimage.ResponseCache = (*Cache)(nil)

// New creates a Cache talking to a static list of servers. It does not use DNS.
func New(config Config, addresses ...string) (*Cache, error) {
	var servers memcache.ServerList
	if err := servers.SetServers(addresses...); err != nil {
		return nil, errors.Wrapf(err, "setting memcache servers to %v", addresses)
	}
	client := memcache.NewFromSelector(&servers)
	client.Timeout = config.Timeout
	client.MaxIdleConns = config.MaxIdleConns

	logger := config.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	clock := config.Clock
	if clock == nil {
		clock = asyncimage.SystemClock
	}
	return &Cache{
		client: client,
		logger: logger,
		clock:  clock,
	}, nil
}

// Key returns the memcache key for url.
// URLs are hashed because memcache keys are limited in length and character set.
func Key(url string) string {
	hash := blake3.Sum256([]byte(url))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// Get retrieves the response for url. Missing and expired items are reported as nil.
func (c *Cache) Get(_ context.Context, url string) (*asyncimage.Response, error) {
	item, err := c.client.Get(Key(url))
	if err != nil {
		if err == memcache.ErrCacheMiss {
			// Don't log on cache miss
			return nil, nil
		}
		c.logger.Log("err", errors.Wrap(err, "fetching response from memcache"))
		return nil, err
	}

	body, expiresAt, err := decodeValue(item.Value)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", url)
	}
	if !c.clock.Now().Before(expiresAt) {
		return nil, nil
	}
	return &asyncimage.Response{
		URL:       url,
		Body:      body,
		ExpiresAt: expiresAt,
	}, nil
}

// Set stores resp until its ExpiresAt, or for MinExpiry if that is sooner.
func (c *Cache) Set(_ context.Context, resp *asyncimage.Response) error {
	ttl := resp.ExpiresAt.Sub(c.clock.Now())
	if ttl < MinExpiry {
		ttl = MinExpiry
	}
	if err := c.client.Set(&memcache.Item{
		Key:        Key(resp.URL),
		Value:      encodeValue(resp.Body, resp.ExpiresAt),
		Expiration: expiration(c.clock.Now(), ttl),
	}); err != nil {
		c.logger.Log("err", errors.Wrap(err, "storing in memcache"))
		return err
	}
	return nil
}

func expiration(now time.Time, ttl time.Duration) int32 {
	if ttl > maxRelativeExpiry {
		return int32(now.Add(ttl).Unix())
	}
	return int32(ttl.Round(time.Second) / time.Second)
}

func encodeValue(body []byte, expiresAt time.Time) []byte {
	value := make([]byte, 4, 4+len(body))
	binary.BigEndian.PutUint32(value, uint32(expiresAt.Unix()))
	return append(value, body...)
}

func decodeValue(value []byte) ([]byte, time.Time, error) {
	if len(value) < 4 {
		return nil, time.Time{}, ErrCorruptedItem
	}
	expiry := binary.BigEndian.Uint32(value)
	return value[4:], time.Unix(int64(expiry), 0), nil
}
