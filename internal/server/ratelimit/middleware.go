package ratelimit

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/postplanner/internal/common"
	"github.com/dmitrijs2005/postplanner/internal/logging"
)

const tooManyRequestsMessage = "Too many requests, please try again later"

// ErrorWriter renders a rejected request. The error carries
// common.ErrorTooManyRequests.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware rejects requests over the limit with a Retry-After header and
// hands the error to reject (nil falls back to a plain 429 JSON body).
// Requests are keyed by the peer in RemoteAddr; forwarding headers only
// count when an upstream middleware rewrote RemoteAddr for a trusted proxy.
// Limiter errors let the request through.
func Middleware(l Limiter, logger logging.Logger, reject ErrorWriter) func(http.Handler) http.Handler {
	if reject == nil {
		reject = writeTooManyRequests
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			d, err := l.Allow(ctx, "ip:"+clientIP(r))
			if err != nil {
				logger.Warn(ctx, "rate limiter unavailable, allowing request", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(d.Remaining, 0)))

			if !d.Allowed {
				secs := int(math.Ceil(d.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				reject(w, r, common.NewError(common.ErrorTooManyRequests, tooManyRequestsMessage))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeTooManyRequests(w http.ResponseWriter, _ *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": common.Message(err, tooManyRequestsMessage)})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
