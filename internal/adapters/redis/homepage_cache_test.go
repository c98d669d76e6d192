package redis_adapter

import (
	"encoding/json"
	"testing"
	"time"

	"showcase-service/internal/core/domain"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHomepageCache_KeyPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	c, err := NewHomepageCache(client, "showcase", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "showcase:homepage:properties", c.key)

	c, err = NewHomepageCache(client, "", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "homepage:properties", c.key)

	_, err = NewHomepageCache(nil, "", time.Minute)
	assert.Error(t, err)
}

func TestDecodeEntry(t *testing.T) {
	data, err := json.Marshal(cacheEntry{SettingsVersion: 4, Properties: []domain.Property{{ID: "p1", Status: domain.StatusActive}}})
	require.NoError(t, err)

	entry, err := decodeEntry(data)
	require.NoError(t, err)
	assert.Equal(t, int64(4), entry.SettingsVersion)
	assert.Equal(t, "p1", entry.Properties[0].ID)

	entry, err = decodeEntry([]byte(`{"settings_version":2}`))
	require.NoError(t, err)
	assert.NotNil(t, entry.Properties)

	_, err = decodeEntry([]byte(`not json`))
	assert.Error(t, err)
}
