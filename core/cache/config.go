package cache

import "time"

// Config holds configuration for the query result cache.
type Config struct {
	// Driver selects the backend: "memory" or "redis".
	Driver string `mapstructure:"driver" default:"memory"`
	// TTL is how long a cached result stays fresh. Zero disables caching.
	TTL time.Duration `mapstructure:"ttl" default:"5m"`
	// LoadTimeout bounds a load shared by concurrent requests for the same key.
	LoadTimeout time.Duration `mapstructure:"load_timeout" default:"60s"`
	// Prefix namespaces every cache key.
	Prefix string `mapstructure:"prefix" default:"cardcommand:"`
	// RedisAddr is the host:port of the Redis server.
	RedisAddr string `mapstructure:"redis_addr" default:"localhost:6379"`
	// RedisPassword is the Redis AUTH password.
	RedisPassword string `mapstructure:"redis_password" default:""`
	// RedisDB is the Redis logical database.
	RedisDB int `mapstructure:"redis_db" default:"0"`
}

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)
