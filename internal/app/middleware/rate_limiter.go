package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"huntersrun-http-service/internal/error/code"
	"huntersrun-http-service/internal/error/response"
)

// 令牌桶限流器
type TokenBucket struct {
	rate       float64 // 每秒填充的令牌数
	capacity   int
	tokens     float64
	lastRefill time.Time
	lastSeen   time.Time
	mu         sync.Mutex
}

// NewTokenBucket 创建令牌桶，初始为满
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	now := time.Now()
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: now,
		lastSeen:   now,
	}
}

// Allow 尝试获取一个令牌
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.lastRefill = now
	tb.lastSeen = now

	tb.tokens += elapsed * tb.rate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

var (
	limiters   = make(map[string]*TokenBucket)
	limitersMu sync.RWMutex
)

// getLimiter 按键获取限流器，不存在则创建
func getLimiter(key string, rate float64, burst int) *TokenBucket {
	limitersMu.RLock()
	limiter, exists := limiters[key]
	limitersMu.RUnlock()
	if exists {
		return limiter
	}

	limitersMu.Lock()
	defer limitersMu.Unlock()
	if limiter, exists = limiters[key]; exists {
		return limiter
	}
	limiter = NewTokenBucket(rate, burst)
	limiters[key] = limiter
	return limiter
}

// IPRateLimiter 按客户端IP限流，用于登录等公开接口
func IPRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := getLimiter("ip:"+c.ClientIP(), rate, burst)
		if !limiter.Allow() {
			response.FailWithMessage(c, code.ErrTooManyRequests, "请求频率过高，请稍后再试", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserRateLimiter 按认证身份限流，未认证请求回落到IP限流
func UserRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if identity, ok := GetIdentity(c); ok {
			key = "user:" + identity.Role + ":" + strconv.FormatUint(uint64(identity.UserID), 10)
		}

		limiter := getLimiter(key, rate, burst)
		if !limiter.Allow() {
			response.FailWithMessage(c, code.ErrTooManyRequests, "请求频率过高，请稍后再试", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// 定期清理长期未活跃的限流器
func init() {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			cutoff := time.Now().Add(-time.Hour)
			limitersMu.Lock()
			for key, limiter := range limiters {
				limiter.mu.Lock()
				idle := limiter.lastSeen.Before(cutoff)
				limiter.mu.Unlock()
				if idle {
					delete(limiters, key)
				}
			}
			limitersMu.Unlock()
		}
	}()
}
