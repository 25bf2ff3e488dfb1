// Package cache holds the Valkey side of the service: the client shared by
// the session lookup, and PoolCache, the candidate pool snapshot every API
// replica reads before falling back to PostgreSQL.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// clientName identifies this service in CLIENT LIST.
const clientName = "stackshelf-api"

// ConnectValkey creates a Valkey client and pings it. Timeouts are short:
// a slow Valkey is treated as a cache miss, so waiting on it only adds
// latency in front of the database read.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	addr := net.JoinHostPort(host, port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		ClientName:   clientName,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolSize:     20,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", addr, err)
	}

	slog.Info("valkey connected", "addr", addr, "client_name", clientName)
	return client, nil
}
