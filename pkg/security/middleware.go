package security

import (
	"context"
	"net"
	"net/http"
	"strings"

	"convodb/pkg/identity"
	"convodb/pkg/logger"
	"convodb/pkg/models"
)

type ctxAccountKey struct{}

// SecConfig bundles the transport-level policy applied in front of the
// API: CORS, optional IP whitelist and per-caller rate limits.
type SecConfig struct {
	AllowedOrigins []string
	RPS            float64
	Burst          int
	IPWhitelist    []string
}

// openPaths may be reached without a session token (deployment probes
// and the auth endpoints themselves).
var openPaths = map[string]struct{}{
	"/healthz":        {},
	"/readyz":         {},
	"/metrics":        {},
	"/v1/auth/signup": {},
	"/v1/auth/login":  {},
	"/v1/auth/social": {},
}

// Middleware applies CORS, IP whitelisting, rate limiting and bearer
// session authentication, injecting the resolved account into the
// request context.
func Middleware(cfg SecConfig) func(http.Handler) http.Handler {
	limiters := newLimiterPool(cfg.RPS, cfg.Burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.LogRequest(r)

			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(origin, cfg.AllowedOrigins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
				w.Header().Set("Access-Control-Max-Age", "600")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if len(cfg.IPWhitelist) > 0 {
				ip := clientIP(r)
				if !ipWhitelisted(ip, cfg.IPWhitelist) {
					logger.Warn("request_blocked", "reason", "ip_not_whitelisted", "ip", ip, "path", r.URL.Path)
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
			}

			token := bearerToken(r)
			key := token
			if key == "" {
				key = clientIP(r)
			}
			if !limiters.allow(key) {
				logger.Warn("request_rate_limited", "path", r.URL.Path, "remote", r.RemoteAddr)
				http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
				return
			}

			if _, open := openPaths[r.URL.Path]; open {
				next.ServeHTTP(w, r)
				return
			}

			if token == "" {
				// the events stream cannot set headers from a browser;
				// accept the token as a query parameter there
				token = r.URL.Query().Get("token")
			}
			if token == "" {
				logger.Warn("request_unauthorized", "path", r.URL.Path, "remote", r.RemoteAddr)
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			account, err := identity.VerifyToken(token)
			if err != nil {
				logger.Warn("invalid_session_token", "path", r.URL.Path)
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ctxAccountKey{}, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountFromContext returns the authenticated account, if any.
func AccountFromContext(ctx context.Context) (models.Account, bool) {
	if v := ctx.Value(ctxAccountKey{}); v != nil {
		if a, ok := v.(models.Account); ok {
			return a, true
		}
	}
	return models.Account{}, false
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

func ipWhitelisted(ip string, list []string) bool {
	for _, entry := range list {
		if entry == ip {
			return true
		}
		if _, cidr, err := net.ParseCIDR(entry); err == nil {
			if p := net.ParseIP(ip); p != nil && cidr.Contains(p) {
				return true
			}
		}
	}
	return false
}
