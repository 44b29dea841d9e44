// Package ratelimit applies per-client token-bucket limits to the API.
// Model-backed endpoints get strict buckets; reads fall under a lenient
// default and the health check is never limited.
package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Rule limits one route prefix. A Limit of zero disables limiting for the
// matched routes.
type Rule struct {
	Prefix string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// DefaultRules returns the per-endpoint limits. Chat and analyze calls fan
// out to the model provider, so they get the tightest buckets.
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: "/health", Method: "GET", Limit: 0},
		{Prefix: "/chat", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Prefix: "/resume/", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Prefix: "/resume", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

// Config controls the limiter. The zero value disables limiting.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	Rules         []Rule
}

// LoadConfig reads the limiter configuration from the environment.
func LoadConfig() Config {
	enabled := true
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			enabled = parsed
		}
	}
	limit := 300
	if v := os.Getenv("RATE_LIMIT_DEFAULT_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	window := time.Minute
	if v := os.Getenv("RATE_LIMIT_DEFAULT_WINDOW"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			window = parsed
		}
	}
	return Config{
		Enabled:       enabled,
		DefaultLimit:  limit,
		DefaultWindow: window,
		Rules:         DefaultRules(),
	}
}

// bucket is one client+route token bucket.
type bucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64
	tokens     float64
	lastRefill time.Time
}

func (b *bucket) take() (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * b.refillRate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	wait := time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
	return false, wait
}

// Limiter tracks token buckets per client and route.
type Limiter struct {
	cfg     Config
	mu      sync.Mutex
	buckets map[string]*bucket
	touched map[string]time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter creates a limiter and starts its idle-bucket sweeper.
func NewLimiter(cfg Config) *Limiter {
	l := &Limiter{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		touched: make(map[string]time.Time),
		stop:    make(chan struct{}),
	}
	if cfg.Enabled {
		go l.sweep()
	}
	return l
}

// Allow reports whether a request may proceed, and when to retry if not.
func (l *Limiter) Allow(clientID, path, method string) (bool, time.Duration) {
	if !l.cfg.Enabled {
		return true, 0
	}

	rule := l.match(path, method)
	if rule.Limit <= 0 {
		return true, 0
	}

	key := clientID + " " + method + " " + rule.Prefix
	b := l.bucketFor(key, rule)
	return b.take()
}

func (l *Limiter) match(path, method string) Rule {
	for _, rule := range l.cfg.Rules {
		if rule.Method == method && strings.HasPrefix(path, rule.Prefix) {
			return rule
		}
	}
	return Rule{Limit: l.cfg.DefaultLimit, Window: l.cfg.DefaultWindow}
}

func (l *Limiter) bucketFor(key string, rule Rule) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.touched[key] = time.Now()
	if b, ok := l.buckets[key]; ok {
		return b
	}

	capacity := rule.Burst
	if capacity <= 0 {
		capacity = rule.Limit
	}
	b := &bucket{
		capacity:   float64(capacity),
		refillRate: float64(rule.Limit) / rule.Window.Seconds(),
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
	l.buckets[key] = b
	return b
}

// sweep drops buckets idle for over an hour.
func (l *Limiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-time.Hour)
			l.mu.Lock()
			for key, at := range l.touched {
				if at.Before(cutoff) {
					delete(l.buckets, key)
					delete(l.touched, key)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}

// Stop terminates the sweeper goroutine.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
