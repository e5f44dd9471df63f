package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/health-signal-classifier/internal/domain"
	"github.com/health-signal-classifier/internal/reference"
	"github.com/health-signal-classifier/internal/service"
)

var (
	delhi  = domain.GeoPoint{Lat: 28.6139, Lon: 77.2090}
	august = time.Date(2024, time.August, 15, 10, 0, 0, 0, time.UTC)
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

type countingAssessor struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (a *countingAssessor) Assess(ctx context.Context, point domain.GeoPoint, city string, predictions map[domain.Diagnosis]float64) (*domain.RiskProfile, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return &domain.RiskProfile{Location: point, City: city, OverallRisk: 0.42}, nil
}

type mapStore struct {
	mu      sync.Mutex
	items   map[string]*domain.RiskProfile
	ttls    map[string]time.Duration
	readErr error
}

func newMapStore() *mapStore {
	return &mapStore{items: map[string]*domain.RiskProfile{}, ttls: map[string]time.Duration{}}
}

func (s *mapStore) GetProfile(ctx context.Context, key string) (*domain.RiskProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, false, s.readErr
	}
	p, ok := s.items[key]
	return p, ok, nil
}

func (s *mapStore) SetProfile(ctx context.Context, key string, profile *domain.RiskProfile, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = profile
	s.ttls[key] = ttl
	return nil
}

func (s *mapStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

func (s *mapStore) Ping(ctx context.Context) error { return nil }
func (s *mapStore) Close() error                   { return nil }

type lookups struct {
	calls []string
}

func (l *lookups) CacheLookup(tier string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	l.calls = append(l.calls, tier+":"+result)
}

func TestProfileCache_MemoryTier(t *testing.T) {
	next := &countingAssessor{}
	observer := &lookups{}
	c, err := NewProfileCache(testLogger(), next, Options{
		MemorySize: 10,
		Observer:   observer,
		Now:        func() time.Time { return august },
	})
	require.NoError(t, err)

	ctx := context.Background()
	preds := map[domain.Diagnosis]float64{domain.Cholera: 0.8}

	first, err := c.Assess(ctx, delhi, "Delhi", preds)
	require.NoError(t, err)
	second, err := c.Assess(ctx, delhi, "Delhi", preds)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, []string{"memory:miss", "memory:hit"}, observer.calls)

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.MemoryHits)
	assert.Equal(t, int64(1), stats.MemoryMisses)
	assert.Equal(t, int64(1), stats.Computations)
	assert.Equal(t, 1, c.Len())

	// A different prediction set is a different assessment.
	_, err = c.Assess(ctx, delhi, "Delhi", map[domain.Diagnosis]float64{domain.Dengue: 0.8})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestProfileCache_MemoryExpiry(t *testing.T) {
	now := august
	next := &countingAssessor{}
	c, err := NewProfileCache(testLogger(), next, Options{
		MemoryTTL: time.Minute,
		Now:       func() time.Time { return now },
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = c.Assess(ctx, delhi, "Delhi", nil)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.Assess(ctx, delhi, "Delhi", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, next.calls)
}

func TestProfileCache_RemoteTier(t *testing.T) {
	remote := newMapStore()
	next := &countingAssessor{}
	observer := &lookups{}
	opts := Options{
		Remote:    remote,
		RemoteTTL: 3 * time.Hour,
		Observer:  observer,
		Now:       func() time.Time { return august },
	}

	first, err := NewProfileCache(testLogger(), next, opts)
	require.NoError(t, err)
	ctx := context.Background()

	p, err := first.Assess(ctx, delhi, "Delhi", nil)
	require.NoError(t, err)

	key := Key(delhi, "Delhi", august, nil)
	assert.Same(t, p, remote.items[key])
	assert.Equal(t, 3*time.Hour, remote.ttls[key])

	// A second process shares the Redis tier but not the memory tier.
	observer.calls = nil
	second, err := NewProfileCache(testLogger(), next, opts)
	require.NoError(t, err)

	got, err := second.Assess(ctx, delhi, "Delhi", nil)
	require.NoError(t, err)
	assert.Same(t, p, got)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, []string{"memory:miss", "redis:hit"}, observer.calls)
	assert.Equal(t, int64(1), second.Stats().RedisHits)
	assert.Equal(t, 1, second.Len())
}

func TestProfileCache_RemoteFailureDegrades(t *testing.T) {
	remote := newMapStore()
	remote.readErr = errors.New("connection refused")
	next := &countingAssessor{}

	c, err := NewProfileCache(testLogger(), next, Options{Remote: remote, Now: func() time.Time { return august }})
	require.NoError(t, err)

	p, err := c.Assess(context.Background(), delhi, "Delhi", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.42, p.OverallRisk)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, int64(1), c.Stats().ErrorCount)
}

func TestProfileCache_ErrorsAreNotCached(t *testing.T) {
	next := &countingAssessor{err: domain.ErrInvalidCoordinates}
	c, err := NewProfileCache(testLogger(), next, Options{Now: func() time.Time { return august }})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = c.Assess(ctx, delhi, "Delhi", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
	_, err = c.Assess(ctx, delhi, "Delhi", nil)
	assert.Error(t, err)

	assert.Equal(t, 2, next.calls)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(2), c.Stats().ErrorCount)
}

func TestProfileCache_Purge(t *testing.T) {
	c, err := NewProfileCache(testLogger(), &countingAssessor{}, Options{Now: func() time.Time { return august }})
	require.NoError(t, err)

	_, err = c.Assess(context.Background(), delhi, "Delhi", nil)
	require.NoError(t, err)

	c.Purge()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, Stats{LastReset: august}, c.Stats())
}

func TestKey(t *testing.T) {
	preds := map[domain.Diagnosis]float64{domain.Cholera: 0.8, domain.Dengue: 0.1}
	base := Key(delhi, "Delhi", august, preds)

	tests := []struct {
		name  string
		key   string
		equal bool
	}{
		{"same city", Key(delhi, "Delhi", august, preds), true},
		{"city spelled differently", Key(delhi, "delhi", august, preds), false},
		{"same coordinates", Key(domain.GeoPoint{Lat: 28.6139, Lon: 77.2090}, "Delhi", august, preds), true},
		{"nearby coordinates", Key(domain.GeoPoint{Lat: 28.6141, Lon: 77.2088}, "Delhi", august, preds), false},
		{"same month", Key(delhi, "Delhi", august.AddDate(0, 0, 10), preds), true},
		{"different month", Key(delhi, "Delhi", august.AddDate(0, 1, 0), preds), false},
		{"different city", Key(delhi, "Mumbai", august, preds), false},
		{"moved", Key(domain.GeoPoint{Lat: 28.70, Lon: 77.21}, "Delhi", august, preds), false},
		{"different predictions", Key(delhi, "Delhi", august, map[domain.Diagnosis]float64{domain.Cholera: 0.8}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.key == base)
		})
	}

	assert.Regexp(t, `^hsc:profile:[0-9a-f]{32}$`, base)
}

func TestProfileCache_NearbyPointsMatchDirectAssessment(t *testing.T) {
	clock := func() time.Time { return august }
	assessor := service.NewEnvironmentalAssessor(testLogger(), reference.Default(), nil, clock)
	c, err := NewProfileCache(testLogger(), assessor, Options{Now: clock})
	require.NoError(t, err)

	ctx := context.Background()
	preds := map[domain.Diagnosis]float64{domain.Cholera: 0.1, domain.Dengue: 0.1}
	points := []domain.GeoPoint{
		{Lat: 28.6101, Lon: 77.2001},
		{Lat: 28.6104, Lon: 77.2003},
	}

	for _, point := range points {
		direct, err := assessor.Assess(ctx, point, "", preds)
		require.NoError(t, err)

		cached, err := c.Assess(ctx, point, "", preds)
		require.NoError(t, err)

		assert.Equal(t, point, cached.Location)
		assert.Equal(t, direct, cached)
	}
	assert.Equal(t, int64(2), c.Stats().Computations)

	for _, city := range []string{"Delhi", "delhi"} {
		cached, err := c.Assess(ctx, points[0], city, preds)
		require.NoError(t, err)
		assert.Equal(t, city, cached.City)
	}
}

func TestProfileCache_ClassificationMatchesUncached(t *testing.T) {
	clock := func() time.Time { return august }
	tables := reference.Default()
	assessor := service.NewEnvironmentalAssessor(testLogger(), tables, nil, clock)
	c, err := NewProfileCache(testLogger(), assessor, Options{Now: clock})
	require.NoError(t, err)

	classifier := func(a domain.EnvironmentAssessor) *service.ClassifierService {
		return service.NewClassifierService(testLogger(), tables,
			service.WithEnvironmentAssessor(a),
			service.WithClock(clock),
			service.WithIDGenerator(func() string { return "fixed-id" }),
		)
	}
	cached := classifier(c)
	direct := classifier(assessor)

	const message = "I have severe watery diarrhea and vomiting since yesterday"
	requests := []domain.ClassifyRequest{
		{Message: message, Location: &domain.GeoPoint{Lat: 28.6101, Lon: 77.2001}},
		{Message: message, Location: &domain.GeoPoint{Lat: 28.6104, Lon: 77.2003}},
		{Message: message, City: "Delhi"},
		{Message: message, Location: &delhi, City: "Delhi"},
	}

	ctx := context.Background()
	for _, req := range requests {
		warm := cached.Classify(ctx, req)
		require.Empty(t, warm.Error)
	}
	for _, req := range requests {
		want := direct.Classify(ctx, req)
		got := cached.Classify(ctx, req)

		require.NotNil(t, got.EnvironmentalRisk)
		assert.Equal(t, want, got)
	}
}
