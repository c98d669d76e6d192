package redis_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"time"

	"github.com/redis/go-redis/v9"
)

const homepageKey = "homepage:properties"

// cacheEntry - витрина вместе с версией настроек, по которой она собрана
type cacheEntry struct {
	SettingsVersion int64             `json:"settings_version"`
	Properties      []domain.Property `json:"properties"`
}

// HomepageCache хранит собранную витрину одним ключом
type HomepageCache struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewHomepageCache - prefix отделяет ключи окружений, использующих один Redis
func NewHomepageCache(client redis.Cmdable, prefix string, ttl time.Duration) (*HomepageCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	key := homepageKey
	if prefix != "" {
		key = prefix + ":" + key
	}
	return &HomepageCache{client: client, key: key, ttl: ttl}, nil
}

func (c *HomepageCache) Get(ctx context.Context, settingsVersion int64) ([]domain.Property, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read homepage cache: %w", err)
	}

	entry, err := decodeEntry(data)
	if err != nil {
		// битую запись просто считаем промахом, Set ее перезапишет
		contextkeys.LoggerFromContext(ctx).Warn("Corrupted homepage cache entry", port.Fields{"error": err.Error()})
		return nil, false, nil
	}
	if entry.SettingsVersion != settingsVersion {
		return nil, false, nil
	}
	return entry.Properties, true, nil
}

func (c *HomepageCache) Set(ctx context.Context, settingsVersion int64, properties []domain.Property) error {
	data, err := json.Marshal(cacheEntry{SettingsVersion: settingsVersion, Properties: properties})
	if err != nil {
		return fmt.Errorf("failed to encode homepage cache entry: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write homepage cache: %w", err)
	}
	return nil
}

func (c *HomepageCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate homepage cache: %w", err)
	}
	return nil
}

func decodeEntry(data []byte) (cacheEntry, error) {
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return cacheEntry{}, err
	}
	if entry.Properties == nil {
		entry.Properties = []domain.Property{}
	}
	return entry, nil
}
