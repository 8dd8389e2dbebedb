package testutils

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const RedisHost = "localhost"

// RunTestRedis starts a disposable redis container and returns its address.
func RunTestRedis(t *testing.T) (string, error) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		return "", fmt.Errorf("new test redis: create dockertest pool: %w", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return "", fmt.Errorf("new test redis: start resource: %w", err)
	}

	if err := resource.Expire(120); err != nil {
		return "", err
	}

	addr := net.JoinHostPort(RedisHost, resource.GetPort("6379/tcp"))
	pool.MaxWait = 60 * time.Second
	if err := pool.Retry(func() error {
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()

		return client.Ping(context.Background()).Err()
	}); err != nil {
		return "", fmt.Errorf("could not connect to docker: %w", err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Fatal(err)
		}
	})

	return addr, nil
}
