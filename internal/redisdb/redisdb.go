package redisdb

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/appenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func NewRedisClient(ctx context.Context, log zerolog.Logger, conf appenv.RedisConfig) (*redis.Client, error) {
	log.Info().Msgf("Connecting to redis server on address=%s, username=%s, clientName=%s .....", conf.Addr, conf.Username, conf.ClientName)

	readTimeout := 3 * time.Second
	client := redis.NewClient(&redis.Options{
		Addr:            conf.Addr,
		Network:         "tcp",
		Password:        conf.Password,
		Username:        conf.Username,
		ClientName:      conf.ClientName,
		DB:              conf.DB,
		Protocol:        3,
		ConnMaxIdleTime: 30 * time.Minute,
		MaxIdleConns:    1,
		MinIdleConns:    0,
		PoolSize:        10 * runtime.NumCPU(),
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		MaxRetries:      3,
		ReadTimeout:     readTimeout,
		WriteTimeout:    3 * time.Second,
		DialTimeout:     5 * time.Second,
		PoolTimeout:     readTimeout + time.Second,
		OnConnect: func(ctx context.Context, cn *redis.Conn) error {
			log.Info().Msgf("Connected to redis server on address=%s, username=%s, clientName=%s .....", conf.Addr, conf.Username, conf.ClientName)
			return nil
		},
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("can't PING the redis server: %w", err)
	}

	return client, nil
}
