package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jukewave/jukewave/internal/domain"
	"github.com/jukewave/jukewave/pkg/logger"
)

type snapshotRepository struct {
	client      *redis.Client
	nowTTL      time.Duration
	metadataTTL time.Duration
}

var _ domain.SnapshotCache = (*snapshotRepository)(nil)

// Cache keys
const (
	NowPlayingKey = "queue:now_playing"
	MetadataKey   = "queue:metadata"

	// Default TTLs track the display client's polling cadence.
	DefaultNowPlayingTTL = 5 * time.Second
	DefaultMetadataTTL   = 30 * time.Second
)

// NewSnapshotRepository creates the Redis-backed read-side cache.
func NewSnapshotRepository(client *redis.Client, nowTTL, metadataTTL time.Duration) domain.SnapshotCache {
	if nowTTL <= 0 {
		nowTTL = DefaultNowPlayingTTL
	}
	if metadataTTL <= 0 {
		metadataTTL = DefaultMetadataTTL
	}
	return &snapshotRepository{client: client, nowTTL: nowTTL, metadataTTL: metadataTTL}
}

// CacheNowPlaying stores the now-playing projection.
func (r *snapshotRepository) CacheNowPlaying(view *domain.NowPlayingView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal now-playing view: %w", err)
	}

	if err := r.client.Set(context.Background(), NowPlayingKey, data, r.nowTTL).Err(); err != nil {
		logger.Error("Failed to cache now-playing view", logger.ErrorField(err))
		return fmt.Errorf("failed to cache now-playing view: %w", err)
	}

	return nil
}

// GetNowPlaying returns the cached now-playing projection, nil on miss.
func (r *snapshotRepository) GetNowPlaying() (*domain.NowPlayingView, error) {
	data, err := r.client.Get(context.Background(), NowPlayingKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get now-playing view from cache: %w", err)
	}

	var view domain.NowPlayingView
	if err := json.Unmarshal([]byte(data), &view); err != nil {
		return nil, fmt.Errorf("failed to unmarshal now-playing view: %w", err)
	}

	return &view, nil
}

// CacheMetadata stores the full metadata projection.
func (r *snapshotRepository) CacheMetadata(meta *domain.QueueMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal queue metadata: %w", err)
	}

	if err := r.client.Set(context.Background(), MetadataKey, data, r.metadataTTL).Err(); err != nil {
		logger.Error("Failed to cache queue metadata", logger.ErrorField(err))
		return fmt.Errorf("failed to cache queue metadata: %w", err)
	}

	return nil
}

// GetMetadata returns the cached metadata projection, nil on miss.
func (r *snapshotRepository) GetMetadata() (*domain.QueueMetadata, error) {
	data, err := r.client.Get(context.Background(), MetadataKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get queue metadata from cache: %w", err)
	}

	var meta domain.QueueMetadata
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue metadata: %w", err)
	}

	return &meta, nil
}

// Invalidate drops both projections so the next read rebuilds them from
// committed store state. Mutations call this to keep reads fresh.
func (r *snapshotRepository) Invalidate() error {
	if err := r.client.Del(context.Background(), NowPlayingKey, MetadataKey).Err(); err != nil {
		logger.Error("Failed to invalidate queue snapshots", logger.ErrorField(err))
		return fmt.Errorf("failed to invalidate queue snapshots: %w", err)
	}

	logger.Debug("Queue snapshot cache invalidated")
	return nil
}

// Ping checks cache connectivity.
func (r *snapshotRepository) Ping() error {
	return r.client.Ping(context.Background()).Err()
}
