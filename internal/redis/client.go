// Package redis provides a wrapper around the go-redis client library
// for improved testing and abstraction.
package redis

import (
	"crypto/tls"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures Redis client behavior
type Options struct {
	PoolSize        int
	MinIdleConns    int
	ConnMaxIdleTime time.Duration
	MaxRetries      int
	UseTLS          bool
}

// NewClient creates a Redis client for a single instance. The endpoint is
// either host:port or a redis:// / rediss:// URL; URL settings win over opts.
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.New("redis: endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	if strings.Contains(endpoint, "://") {
		redisOpts, err := redis.ParseURL(endpoint)
		if err != nil {
			return nil, err
		}
		applyOptions(redisOpts, opts)
		return redis.NewClient(redisOpts), nil
	}

	redisOpts := &redis.Options{Addr: endpoint}
	applyOptions(redisOpts, opts)
	if opts.UseTLS {
		redisOpts.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402 // For self-signed certs
		}
	}

	return redis.NewClient(redisOpts), nil
}

func applyOptions(redisOpts *redis.Options, opts *Options) {
	if opts.PoolSize > 0 {
		redisOpts.PoolSize = opts.PoolSize
	}
	if opts.MinIdleConns > 0 {
		redisOpts.MinIdleConns = opts.MinIdleConns
	}
	if opts.ConnMaxIdleTime > 0 {
		redisOpts.ConnMaxIdleTime = opts.ConnMaxIdleTime
	}
	if opts.MaxRetries != 0 {
		redisOpts.MaxRetries = opts.MaxRetries
	}
}
