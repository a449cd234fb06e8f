// api/db/redis.go
package db

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/conditioncraft/composer/api/logging"
	"github.com/conditioncraft/composer/api/model"
)

var (
	RedisClient   *redis.Client
	encryptionKey []byte
)

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	encryptionKey = []byte(viper.GetString("redis.encryptionKey"))
	if len(encryptionKey) != 32 {
		return fmt.Errorf("invalid encryption key length: must be 32 bytes")
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

func encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// CacheSnapshot stores a session's condition group. Snapshots can
// reference internal resources by name, so they are encrypted at
// rest like any other policy material.
func CacheSnapshot(ctx context.Context, sessionID string, group model.ConditionGroup) error {
	groupJSON, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	encryptedGroup, err := encrypt(groupJSON)
	if err != nil {
		return fmt.Errorf("failed to encrypt snapshot: %w", err)
	}

	key := fmt.Sprintf("session:%s:snapshot", sessionID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, base64.StdEncoding.EncodeToString(encryptedGroup), defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}

	logger.Debug("Snapshot cached successfully", zap.String("sessionID", sessionID))
	return nil
}

func GetCachedSnapshot(ctx context.Context, sessionID string) (*model.ConditionGroup, error) {
	key := fmt.Sprintf("session:%s:snapshot", sessionID)
	encryptedStr, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Snapshot not found in cache", zap.String("sessionID", sessionID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get snapshot from cache: %w", err)
	}

	encryptedGroup, err := base64.StdEncoding.DecodeString(encryptedStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	groupJSON, err := decrypt(encryptedGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt snapshot: %w", err)
	}

	var group model.ConditionGroup
	err = json.Unmarshal(groupJSON, &group)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	logger.Debug("Snapshot retrieved from cache", zap.String("sessionID", sessionID))
	return &group, nil
}

func DeleteCachedSnapshot(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf("session:%s:snapshot", sessionID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot from cache: %w", err)
	}
	logger.Debug("Snapshot deleted from cache", zap.String("sessionID", sessionID))
	return nil
}

// CacheDirectoryEntries stores a page of picker results. Directory
// rows are not sensitive, so they skip encryption.
func CacheDirectoryEntries(ctx context.Context, cacheKey string, entries []model.DirectoryEntry) error {
	entriesJSON, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal directory entries: %w", err)
	}

	key := fmt.Sprintf("directory:%s", cacheKey)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, entriesJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache directory entries: %w", err)
	}

	logger.Debug("Directory entries cached successfully", zap.String("key", cacheKey))
	return nil
}

func GetCachedDirectoryEntries(ctx context.Context, cacheKey string) ([]model.DirectoryEntry, error) {
	key := fmt.Sprintf("directory:%s", cacheKey)
	entriesJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Directory entries not found in cache", zap.String("key", cacheKey))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get directory entries from cache: %w", err)
	}

	var entries []model.DirectoryEntry
	err = json.Unmarshal([]byte(entriesJSON), &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal directory entries: %w", err)
	}

	logger.Debug("Directory entries retrieved from cache", zap.String("key", cacheKey))
	return entries, nil
}

func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := RedisClient.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}

// LockSession takes a short-lived lock used to serialize reference
// checks for one session.
func LockSession(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:session:%s", sessionID)
	locked, err := RedisClient.SetNX(ctx, key, "locked", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	logger.Debug("Lock acquisition attempt",
		zap.String("sessionID", sessionID),
		zap.Bool("locked", locked))
	return locked, nil
}

func UnlockSession(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf("lock:session:%s", sessionID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	logger.Debug("Lock released", zap.String("sessionID", sessionID))
	return nil
}
