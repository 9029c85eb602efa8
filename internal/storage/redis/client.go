package storage

import (
	"context"

	"github.com/redis/go-redis/v9"

	"photofolio/internal/config"
)

type Client struct {
	*redis.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		Client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
