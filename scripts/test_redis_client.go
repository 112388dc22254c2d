package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/frontandrew/shuttlefleet/internal/pkg/redis"
)

func main() {
	fmt.Println("=========================================")
	fmt.Println("Redis Ledger Cache Test")
	fmt.Println("=========================================")
	fmt.Println()

	// Создаем Redis клиент
	client, err := redis.NewClient(redis.Config{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	if err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Println("✅ Connected to Redis")
	fmt.Println()

	ctx := context.Background()

	// Test 1: PING
	fmt.Println("Test 1: PING")
	if err := client.Ping(ctx); err != nil {
		fmt.Printf("❌ PING failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ PING successful")
	fmt.Println()

	// Test 2: SET/GET в формате кэша журнала ("<version>:<raw json>")
	fmt.Println("Test 2: SET/GET ledger cache entry")
	cacheKey := "ledger:00000000-0000-0000-0000-000000000001"
	cacheValue := `3:[{"dates":["2026-09-10"],"note":"smoke test"}]`

	if err := client.Set(ctx, cacheKey, cacheValue, 1*time.Minute); err != nil {
		fmt.Printf("❌ SET failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ SET %s\n", cacheKey)

	value, err := client.Get(ctx, cacheKey)
	if err != nil {
		fmt.Printf("❌ GET failed: %v\n", err)
		os.Exit(1)
	}
	if value != cacheValue {
		fmt.Printf("❌ GET returned wrong value: %s\n", value)
		os.Exit(1)
	}
	fmt.Printf("✅ GET %s = %s\n", cacheKey, value)
	fmt.Println()

	// Test 3: DEL (инвалидация кэша при записи журнала)
	fmt.Println("Test 3: DEL (cache invalidation)")
	if err := client.Del(ctx, cacheKey); err != nil {
		fmt.Printf("❌ DEL failed: %v\n", err)
		os.Exit(1)
	}

	exists, err := client.Exists(ctx, cacheKey)
	if err != nil {
		fmt.Printf("❌ EXISTS check failed: %v\n", err)
		os.Exit(1)
	}
	if exists != 0 {
		fmt.Printf("❌ Key should not exist but does\n")
		os.Exit(1)
	}
	fmt.Println("✅ Cache entry invalidated")
	fmt.Println()

	fmt.Println("=========================================")
	fmt.Println("✅ All Redis client tests passed!")
	fmt.Println("=========================================")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
