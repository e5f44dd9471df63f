package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/health-signal-classifier/internal/domain"
)

// Cache tiers reported to the LookupObserver.
const (
	TierMemory = "memory"
	TierRedis  = "redis"
)

// LookupObserver receives one call per tier lookup.
type LookupObserver interface {
	CacheLookup(tier string, hit bool)
}

// Stats represents cache performance statistics
type Stats struct {
	TotalRequests int64     `json:"total_requests"`
	MemoryHits    int64     `json:"memory_hits"`
	MemoryMisses  int64     `json:"memory_misses"`
	RedisHits     int64     `json:"redis_hits"`
	RedisMisses   int64     `json:"redis_misses"`
	Computations  int64     `json:"computations"`
	ErrorCount    int64     `json:"error_count"`
	LastReset     time.Time `json:"last_reset"`
}

// Options configures a ProfileCache.
type Options struct {
	MemorySize int
	MemoryTTL  time.Duration
	RemoteTTL  time.Duration
	Remote     RemoteStore
	Observer   LookupObserver
	Now        func() time.Time
}

// ProfileCache is a domain.EnvironmentAssessor that serves repeated
// assessments of the same place, month and prediction set from cache.
type ProfileCache struct {
	next   domain.EnvironmentAssessor
	memory *lru.Cache[string, *entry]
	remote RemoteStore

	memoryTTL time.Duration
	remoteTTL time.Duration
	observer  LookupObserver
	now       func() time.Time
	logger    *logrus.Logger

	statsMu sync.Mutex
	stats   Stats
}

type entry struct {
	profile *domain.RiskProfile
	expiry  time.Time
}

// NewProfileCache wraps next.
func NewProfileCache(logger *logrus.Logger, next domain.EnvironmentAssessor, opts Options) (*ProfileCache, error) {
	if opts.MemorySize <= 0 {
		opts.MemorySize = 1000
	}
	if opts.MemoryTTL <= 0 {
		opts.MemoryTTL = time.Hour
	}
	if opts.RemoteTTL <= 0 {
		opts.RemoteTTL = 6 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	memory, err := lru.New[string, *entry](opts.MemorySize)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}

	return &ProfileCache{
		next:      next,
		memory:    memory,
		remote:    opts.Remote,
		memoryTTL: opts.MemoryTTL,
		remoteTTL: opts.RemoteTTL,
		observer:  opts.Observer,
		now:       opts.Now,
		logger:    logger,
		stats:     Stats{LastReset: opts.Now()},
	}, nil
}

// Assess returns the cached profile for the request or computes and stores
// it. A failing Redis tier degrades to the memory tier.
func (c *ProfileCache) Assess(ctx context.Context, point domain.GeoPoint, city string, predictions map[domain.Diagnosis]float64) (*domain.RiskProfile, error) {
	c.count(func(s *Stats) { s.TotalRequests++ })
	key := Key(point, city, c.now(), predictions)

	if p := c.fromMemory(key); p != nil {
		c.count(func(s *Stats) { s.MemoryHits++ })
		c.observe(TierMemory, true)
		return p, nil
	}
	c.count(func(s *Stats) { s.MemoryMisses++ })
	c.observe(TierMemory, false)

	if c.remote != nil {
		p, ok, err := c.remote.GetProfile(ctx, key)
		switch {
		case err != nil:
			c.count(func(s *Stats) { s.ErrorCount++ })
			c.logger.WithError(err).Warn("Profile cache read failed, computing profile")
		case ok:
			c.count(func(s *Stats) { s.RedisHits++ })
			c.observe(TierRedis, true)
			c.toMemory(key, p)
			return p, nil
		default:
			c.count(func(s *Stats) { s.RedisMisses++ })
			c.observe(TierRedis, false)
		}
	}

	profile, err := c.next.Assess(ctx, point, city, predictions)
	if err != nil {
		c.count(func(s *Stats) { s.ErrorCount++ })
		return nil, err
	}
	c.count(func(s *Stats) { s.Computations++ })

	c.toMemory(key, profile)
	if c.remote != nil {
		if err := c.remote.SetProfile(ctx, key, profile, c.remoteTTL); err != nil {
			c.count(func(s *Stats) { s.ErrorCount++ })
			c.logger.WithError(err).Warn("Profile cache write failed")
		}
	}

	c.logger.WithFields(logrus.Fields{
		"city":         city,
		"overall_risk": profile.OverallRisk,
	}).Debug("Environmental profile computed")

	return profile, nil
}

// Stats returns a snapshot of the counters.
func (c *ProfileCache) Stats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// Purge empties the memory tier and resets the counters.
func (c *ProfileCache) Purge() {
	c.memory.Purge()
	c.statsMu.Lock()
	c.stats = Stats{LastReset: c.now()}
	c.statsMu.Unlock()
}

// Len is the number of entries in the memory tier.
func (c *ProfileCache) Len() int {
	return c.memory.Len()
}

func (c *ProfileCache) fromMemory(key string) *domain.RiskProfile {
	e, ok := c.memory.Get(key)
	if !ok {
		return nil
	}
	if c.now().After(e.expiry) {
		c.memory.Remove(key)
		return nil
	}
	return e.profile
}

func (c *ProfileCache) toMemory(key string, p *domain.RiskProfile) {
	c.memory.Add(key, &entry{profile: p, expiry: c.now().Add(c.memoryTTL)})
}

func (c *ProfileCache) count(f func(*Stats)) {
	c.statsMu.Lock()
	f(&c.stats)
	c.statsMu.Unlock()
}

func (c *ProfileCache) observe(tier string, hit bool) {
	if c.observer != nil {
		c.observer.CacheLookup(tier, hit)
	}
}

// Key identifies an assessment: the city as given, the exact coordinates,
// the calendar month and the prediction set. Nothing is normalised since the
// profile echoes the city and point back to the caller.
func Key(point domain.GeoPoint, city string, at time.Time, predictions map[domain.Diagnosis]float64) string {
	diseases := make([]string, 0, len(predictions))
	for d := range predictions {
		diseases = append(diseases, string(d))
	}
	sort.Strings(diseases)

	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%s", city,
		coordinate(point.Lat), coordinate(point.Lon), at.UTC().Format("2006-01"))
	for _, d := range diseases {
		fmt.Fprintf(&b, "|%s=%.4f", d, predictions[domain.Diagnosis(d)])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("hsc:profile:%x", sum[:16])
}

func coordinate(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
