package security

import (
	"sync"

	"golang.org/x/time/rate"
)

// limiterPool keeps one token-bucket limiter per caller (session token
// when present, remote IP otherwise).
type limiterPool struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

func newLimiterPool(rps float64, burst int) *limiterPool {
	return &limiterPool{limiters: map[string]*rate.Limiter{}, rps: rps, burst: burst}
}

func (p *limiterPool) allow(key string) bool {
	if p.rps <= 0 {
		return true
	}
	p.mu.Lock()
	l, ok := p.limiters[key]
	if !ok {
		burst := p.burst
		if burst <= 0 {
			burst = 1
		}
		l = rate.NewLimiter(rate.Limit(p.rps), burst)
		p.limiters[key] = l
	}
	p.mu.Unlock()
	return l.Allow()
}
