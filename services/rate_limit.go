package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/coinquest-app/quest_api/shared"
)

// RateLimitService throttles per-client request rates with fixed-window
// counters in redis, so limits hold across instances. Auth endpoints get a
// tighter bucket than gameplay traffic.
type RateLimitService struct {
	appContext.DefaultService

	redisSvc *RedisService

	window      time.Duration
	maxRequests int64
	maxAuth     int64
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.window = time.Minute
	svc.maxRequests = envInt64("RATE_LIMIT_PER_MINUTE", 300)
	svc.maxAuth = envInt64("RATE_LIMIT_AUTH_PER_MINUTE", 10)
	return svc.DefaultService.Configure(ctx)
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// Allow checks and bumps the general bucket for a client key.
func (svc *RateLimitService) Allow(ctx context.Context, clientKey string) error {
	return svc.allow(ctx, "rl:req:"+clientKey, svc.maxRequests)
}

// AllowAuth checks and bumps the tighter credential-endpoint bucket.
func (svc *RateLimitService) AllowAuth(ctx context.Context, clientKey string) error {
	return svc.allow(ctx, "rl:auth:"+clientKey, svc.maxAuth)
}

func (svc *RateLimitService) allow(ctx context.Context, key string, max int64) error {
	windowKey := fmt.Sprintf("%s:%d", key, time.Now().Unix()/int64(svc.window.Seconds()))

	count, err := svc.redisSvc.Incr(ctx, windowKey, svc.window)
	if err != nil {
		// Redis being down must not take the API with it.
		log.WithError(err).Debug("Rate limit check skipped")
		return nil
	}
	if count > max {
		return &shared.AppError{StatusCode: 429, Message: "too many requests"}
	}
	return nil
}
