// Package utils 提供分页与 retry/backoff 通用工具
package utils

import (
	"context"
	"time"
)

// NormalizePage 规范化分页参数，返回 offset/limit
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return (page - 1) * size, size
}

// Retry 以指数退避重试 fn，最多 attempts 次
func Retry(ctx context.Context, attempts int, baseBackoff time.Duration, fn func() error) error {
	var err error
	backoff := baseBackoff
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
