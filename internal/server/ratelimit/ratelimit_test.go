package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	l := NewLimiter(cfg)
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestTokenBucket_TakeAndRefill(t *testing.T) {
	start := time.Now()
	bucket := newTokenBucket(3, 1.0, start)

	for i := 0; i < 3; i++ {
		allowed, remaining, _ := bucket.take(start)
		assert.True(t, allowed)
		assert.Equal(t, 2-i, remaining)
	}

	allowed, remaining, reset := bucket.take(start)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, start.Add(3*time.Second), reset)

	allowed, _, _ = bucket.take(start.Add(time.Second))
	assert.True(t, allowed, "one token refills per second")

	allowed, _, _ = bucket.take(start.Add(time.Hour))
	assert.True(t, allowed)
	_, remaining, _ = bucket.take(start.Add(time.Hour))
	assert.Equal(t, 1, remaining, "refill is capped at capacity")
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/resumes/user/1", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/resumes/user/1", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 6*time.Second, info.RetryAfter)

	allowed, _ = limiter.Allow("10.0.0.2", "/resumes/user/1", "GET")
	assert.True(t, allowed, "clients have separate buckets")
}

func TestLimiter_RefillsOverTime(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})

	for i := 0; i < 60; i++ {
		limiter.Allow("c", "/x", "GET")
	}
	allowed, _ := limiter.Allow("c", "/x", "GET")
	require.False(t, allowed)

	clock.Advance(time.Second)
	allowed, _ = limiter.Allow("c", "/x", "GET")
	assert.True(t, allowed)
}

func TestLimiter_WhitelistBlacklistDisabled(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})

	for i := 0; i < 50; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/x", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}

	allowed, _ := limiter.Allow("192.168.1.1", "/x", "GET")
	assert.False(t, allowed)

	disabled, _ := newTestLimiter(t, &Config{Enabled: false})
	for i := 0; i < 50; i++ {
		allowed, _ := disabled.Allow("127.0.0.1", "/x", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_AIEndpointsShareStrictBucket(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(12, time.Hour),
	})

	paths := []string{"/ai/improve-text", "/ai/chat"}
	for i := 0; i < 2; i++ {
		allowed, info := limiter.Allow("c", paths[i], "POST")
		require.True(t, allowed)
		assert.Equal(t, 12, info.Limit)
	}

	allowed, _ := limiter.Allow("c", "/ai/suggestions", "POST")
	assert.False(t, allowed, "burst of 2 is shared across /ai/ endpoints")

	allowed, info := limiter.Allow("c", "/resumes/abc", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_VaryingIDsShareBucket(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: []EndpointConfig{{Path: "/resumes/*/export", Method: "POST", Limit: 2, Window: time.Hour}},
	})

	assert.True(t, first(limiter.Allow("c", "/resumes/a/export", "POST")))
	assert.True(t, first(limiter.Allow("c", "/resumes/b/export", "POST")))
	assert.False(t, first(limiter.Allow("c", "/resumes/c/export", "POST")))
}

func first(allowed bool, _ Info) bool { return allowed }

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})

	var allowedCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("c", "/x", "GET"); allowed {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), allowedCount.Load())
}

func TestLimiter_RemoveIdle(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	limiter.Allow("old", "/x", "GET")
	clock.Advance(2 * time.Hour)
	limiter.Allow("new", "/x", "GET")

	assert.Equal(t, 1, limiter.removeIdle(clock.Now().Add(-idleBucketTTL)))
	assert.Len(t, limiter.buckets, 1)
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter, _ := newTestLimiter(t, nil)

	allowed, info := limiter.Allow("127.0.0.1", "/x", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs(60, time.Hour)

	tests := []struct {
		name     string
		path     string
		method   string
		wantPath string
		wantNil  bool
	}{
		{name: "ai prefix", path: "/ai/chat/section-advice", method: "POST", wantPath: "/ai/"},
		{name: "draft beats put prefix", path: "/resumes/123/draft", method: "PUT", wantPath: "/resumes/*/draft"},
		{name: "update uses put prefix", path: "/resumes/123", method: "PUT", wantPath: "/resumes/"},
		{name: "export", path: "/resumes/123/export", method: "POST", wantPath: "/resumes/*/export"},
		{name: "create resume exact", path: "/resumes", method: "POST", wantPath: "/resumes"},
		{name: "reads use default", path: "/resumes/123", method: "GET", wantNil: true},
		{name: "method must match", path: "/ai/chat", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, rule)
				return
			}
			require.NotNil(t, rule)
			assert.Equal(t, tt.wantPath, rule.Path)
		})
	}

	health := MatchEndpoint("/health", "GET", configs)
	require.NotNil(t, health)
	assert.Equal(t, 0, health.Limit)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "500")
	t.Setenv("RATE_LIMIT_AI_LIMIT", "30")
	t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1 , ,10.0.0.2")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 500, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
	assert.Empty(t, cfg.Blacklist)

	ai := MatchEndpoint("/ai/chat", "POST", cfg.EndpointConfigs)
	require.NotNil(t, ai)
	assert.Equal(t, 30, ai.Limit)
	assert.Equal(t, 5, ai.Burst)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
