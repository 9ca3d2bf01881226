package sourcescache

import (
	"context"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/sourcesrepo"
)

var redisAddr string

func init() {
	flag.StringVar(&redisAddr, "test.sourcescache.redis.addr", "", "address of a test redis instance")
}

// TestRedisCacheRoundTrip exercises a live redis instance; it is skipped
// unless one is configured, matching the teacher's cache/redis test.
func TestRedisCacheRoundTrip(t *testing.T) {
	if redisAddr == "" {
		redisAddr = os.Getenv("TEST_SOURCESCACHE_REDIS_ADDR")
	}
	if redisAddr == "" {
		t.Skip("please set -test.sourcescache.redis.addr to test RedisCache against a live redis instance")
	}

	pool := &redis.Pool{
		Dial: func() (redis.Conn, error) { return redis.Dial("tcp", redisAddr) },
	}
	defer pool.Close()

	c := NewRedisCache(pool, time.Minute)
	ctx := context.Background()

	bundle := sourcesrepo.ComponentObjects{
		Component: &scope.Component{Box: "utils", Name: "str-pad", Versions: map[string]scope.Ref{}},
		Versions:  map[scope.Ref]*scope.Version{},
		Sources:   map[scope.Ref]*scope.Source{},
	}
	if err := c.Set(ctx, "utils/str-pad", bundle); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := c.Get(ctx, "utils/str-pad")
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if got.Component.Name != "str-pad" {
		t.Fatalf("unexpected value: %+v", got.Component)
	}
}
