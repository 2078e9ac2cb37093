// Package redis 提供登录会话的 Redis 存储实现。
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/aurorajewels/storefront/internal/user/domain"
	goredis "github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "auth:session:"

type sessionStore struct{ client goredis.UniversalClient }

// NewSessionStore 创建会话存储实例
func NewSessionStore(client goredis.UniversalClient) domain.SessionStore {
	return &sessionStore{client: client}
}

// 存 token 摘要而非原文，Redis 泄露时拿不到可用凭证
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *sessionStore) Save(ctx context.Context, uid, token string, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKeyPrefix+uid, tokenDigest(token), ttl).Err()
}

func (s *sessionStore) Valid(ctx context.Context, uid, token string) (bool, error) {
	stored, err := s.client.Get(ctx, sessionKeyPrefix+uid).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session lookup: %w", err)
	}
	return stored == tokenDigest(token), nil
}

func (s *sessionStore) Delete(ctx context.Context, uid string) error {
	return s.client.Del(ctx, sessionKeyPrefix+uid).Err()
}
