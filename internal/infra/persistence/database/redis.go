/*
 * @Description: Redis 客户端
 * @Author: 安知鱼
 * @Date: 2025-06-15 11:30:55
 * @LastEditTime: 2026-09-07 14:31:09
 * @LastEditors: 安知鱼
 */
package database

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/predelnews/predelnews-app/pkg/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient 返回 Redis 客户端；未配置或无法连接时返回 nil，由上层降级到内存缓存
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	redisAddr := strings.TrimSpace(cfg.GetString(config.KeyRedisAddr))
	if redisAddr == "" {
		log.Println("⚠️  Redis 地址未配置，将使用内存缓存")
		return nil, nil
	}

	redisDB := 0
	if s := strings.TrimSpace(cfg.GetString(config.KeyRedisDB)); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			log.Printf("⚠️  无效的 Redis.DB 值 '%s'，将使用内存缓存", s)
			return nil, nil
		}
		redisDB = n
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		Password:     cfg.GetString(config.KeyRedisPassword),
		DB:           redisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("⚠️  连接 Redis (%s, DB %d) 失败: %v，将使用内存缓存", redisAddr, redisDB, err)
		rdb.Close()
		return nil, nil
	}

	log.Printf("✅ 成功连接到 Redis (%s, DB %d)", redisAddr, redisDB)
	return rdb, nil
}
