package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursestore-backend/internal/config"
	"coursestore-backend/pkg/cache"
)

func TestInitCache_FallsBackToMemoryWhenRedisIsDown(t *testing.T) {
	c := &Container{Config: &config.Config{
		// Nothing listens on port 1, so the ping is refused.
		Redis: config.RedisConfig{Host: "127.0.0.1:1", KeyPrefix: "test:"},
	}}

	c.initCache()
	t.Cleanup(func() { _ = c.AsynqClient.Close() })

	require.NotNil(t, c.Cache)
	assert.IsType(t, &cache.MemoryCache{}, c.Cache)
	require.NotNil(t, c.AsynqClient)
}
