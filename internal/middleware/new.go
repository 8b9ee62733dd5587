package middleware

import (
	"conversational-task-manager/config"
	"conversational-task-manager/pkg/log"
)

type Middleware struct {
	l           log.Logger
	limiter     *Limiter
	environment string
}

func New(l log.Logger, rateCfg config.RateLimitConfig, environment string) Middleware {
	return Middleware{
		l:           l,
		limiter:     NewLimiter(rateCfg.RequestsPerMin),
		environment: environment,
	}
}
