package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/logging"
	"github.com/activsafe/ActivSafe-Platform/pkg/errors"
	"github.com/activsafe/ActivSafe-Platform/pkg/types/risk"
)

func sampleResult() *risk.TrendAnalysisResult {
	return &risk.TrendAnalysisResult{
		Trend:      &risk.TrendLine{Slope: 0.4, Intercept: 1.2, RSquared: 0.9},
		AnalyzedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

// newTestCache uses a zero TTL so expirations are deterministic under mock
// expectations.
func newTestCache(t *testing.T) (*TrendCache, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	cache := NewTrendCache(db, "activsafe", 0, logging.NewNopLogger())
	return cache, mock
}

func TestTrendCache_GetHit(t *testing.T) {
	cache, mock := newTestCache(t)
	payload, err := json.Marshal(sampleResult())
	require.NoError(t, err)
	mock.ExpectGet("activsafe:trend:school-12").SetVal(string(payload))

	got, ok, err := cache.Get(context.Background(), "school-12")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.4, got.Trend.Slope, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrendCache_GetMiss(t *testing.T) {
	cache, mock := newTestCache(t)
	mock.ExpectGet("activsafe:trend:school-12").RedisNil()

	got, ok, err := cache.Get(context.Background(), "school-12")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestTrendCache_GetCorruptEntryBehavesAsMiss(t *testing.T) {
	cache, mock := newTestCache(t)
	mock.ExpectGet("activsafe:trend:school-12").SetVal("{not json")

	got, ok, err := cache.Get(context.Background(), "school-12")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestTrendCache_GetTransportError(t *testing.T) {
	cache, mock := newTestCache(t)
	mock.ExpectGet("activsafe:trend:school-12").SetErr(fmt.Errorf("connection reset"))

	_, _, err := cache.Get(context.Background(), "school-12")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCacheError, errors.GetCode(err))
}

func TestTrendCache_Set(t *testing.T) {
	cache, mock := newTestCache(t)
	payload, err := json.Marshal(sampleResult())
	require.NoError(t, err)
	mock.ExpectSet("activsafe:trend:school-12", payload, 0).SetVal("OK")

	require.NoError(t, cache.Set(context.Background(), "school-12", sampleResult()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrendCache_GetOrCompute_CachedPathSkipsCompute(t *testing.T) {
	cache, mock := newTestCache(t)
	payload, err := json.Marshal(sampleResult())
	require.NoError(t, err)
	mock.ExpectGet("activsafe:trend:school-12").SetVal(string(payload))

	computed := false
	got, err := cache.GetOrCompute(context.Background(), "school-12",
		func(context.Context) (*risk.TrendAnalysisResult, error) {
			computed = true
			return nil, nil
		})
	require.NoError(t, err)
	assert.False(t, computed)
	assert.NotNil(t, got.Trend)
}

func TestTrendCache_GetOrCompute_MissComputesAndFills(t *testing.T) {
	cache, mock := newTestCache(t)
	result := sampleResult()
	payload, err := json.Marshal(result)
	require.NoError(t, err)

	mock.ExpectGet("activsafe:trend:school-12").RedisNil()
	mock.ExpectSet("activsafe:trend:school-12", payload, 0).SetVal("OK")

	got, err := cache.GetOrCompute(context.Background(), "school-12",
		func(context.Context) (*risk.TrendAnalysisResult, error) {
			return result, nil
		})
	require.NoError(t, err)
	assert.Equal(t, result, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrendCache_GetOrCompute_FillFailureStillReturnsResult(t *testing.T) {
	cache, mock := newTestCache(t)
	result := sampleResult()
	payload, err := json.Marshal(result)
	require.NoError(t, err)

	mock.ExpectGet("activsafe:trend:school-12").RedisNil()
	mock.ExpectSet("activsafe:trend:school-12", payload, 0).SetErr(fmt.Errorf("write refused"))

	got, err := cache.GetOrCompute(context.Background(), "school-12",
		func(context.Context) (*risk.TrendAnalysisResult, error) {
			return result, nil
		})
	require.NoError(t, err)
	assert.Equal(t, result, got)
}

func TestTrendCache_GetOrCompute_ComputeErrorPropagates(t *testing.T) {
	cache, mock := newTestCache(t)
	mock.ExpectGet("activsafe:trend:school-12").RedisNil()

	_, err := cache.GetOrCompute(context.Background(), "school-12",
		func(context.Context) (*risk.TrendAnalysisResult, error) {
			return nil, fmt.Errorf("history unavailable")
		})
	require.Error(t, err)
}

func TestTrendCache_Delete(t *testing.T) {
	cache, mock := newTestCache(t)
	mock.ExpectDel("activsafe:trend:school-12").SetVal(1)
	require.NoError(t, cache.Delete(context.Background(), "school-12"))
}

func TestTrendCache_JitteredTTLStaysInBand(t *testing.T) {
	db, _ := redismock.NewClientMock()
	cache := NewTrendCache(db, "activsafe", 10*time.Minute, logging.NewNopLogger())

	for i := 0; i < 50; i++ {
		ttl := cache.jitteredTTL()
		assert.GreaterOrEqual(t, ttl, 9*time.Minute)
		assert.LessOrEqual(t, ttl, 11*time.Minute)
	}
}
