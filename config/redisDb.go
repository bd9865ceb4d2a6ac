package config

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/bsm/redislock"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

var (
	rdb    *redis.Client
	locker *redislock.Client
)

func GetRedisDB() *redis.Client {
	return rdb
}

func GetRedisLock() *redislock.Client {
	return locker
}

// GetRedisValue returns (value, found, error). A nil client reports not-found
// so callers can keep working when Redis is unavailable.
func GetRedisValue(ctx context.Context, key string) (string, bool, error) {
	if rdb == nil {
		return "", false, nil
	}
	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func SetRedisValue(ctx context.Context, key string, value string, exp time.Duration) error {
	if rdb == nil {
		return nil
	}
	return rdb.Set(ctx, key, value, exp).Err()
}

func RemoveRedisKey(ctx context.Context, keys ...string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// GetRedisCounter increments the counter and returns the new value.
// Returns 0 when Redis is not configured; callers must fall back to the DB.
func GetRedisCounter(ctx context.Context, key string) (int64, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.Incr(ctx, key).Result()
}

// DecrRedisCounter undoes one increment, used when the allocation that took
// the value rolled back.
func DecrRedisCounter(ctx context.Context, key string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Decr(ctx, key).Err()
}

// SetRedisCounter stores an absolute counter value (used when seeding from DB).
func SetRedisCounter(ctx context.Context, key string, value int64) error {
	if rdb == nil {
		return nil
	}
	return rdb.Set(ctx, key, value, 0).Err()
}

func init() {
	// Load env from .env
	godotenv.Load()
}

// ConnectRedisWithRetry connects and sets the global client + lock client.
// Call from main() after the HTTP server is listening.
func ConnectRedisWithRetry() {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		log.Println("REDIS_ADDRESS not set; running without redis (counters fall back to DB)")
		return
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	var attempt int
	for {
		attempt++
		err := client.Ping(context.Background()).Err()
		if err == nil {
			rdb = client
			locker = redislock.New(client)
			log.Printf("connected to redis (attempt=%d)", attempt)
			return
		}
		if attempt >= 5 {
			log.Printf("redis unavailable after %d attempts: %v; continuing without redis", attempt, err)
			return
		}
		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		log.Printf("failed to connect redis (attempt=%d): %v; retrying in %s", attempt, err, sleep)
		time.Sleep(sleep)
	}
}
