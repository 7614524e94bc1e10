package handlers

import (
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/xean001/fadely/internal/core/domain"
)

const HeaderRequestID = "X-Request-ID"

// Context keys
const (
	ctxKeyRequestID = "request_id"
	ctxKeyLogger    = "logger"
	ctxKeyAborted   = "stream_aborted"
)

const maxRequestIDLen = 128

// RequestID tags every request with an id, reusing a sane incoming X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// AccessLog attaches a request-scoped entry to the context and logs one line
// per request, including requests whose stream was aborted.
func AccessLog(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := log.WithFields(logrus.Fields{
			"request_id": c.GetString(ctxKeyRequestID),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"client_ip":  c.ClientIP(),
		})
		c.Set(ctxKeyLogger, entry)

		defer func() {
			fields := logrus.Fields{
				"status":  c.Writer.Status(),
				"bytes":   c.Writer.Size(),
				"latency": time.Since(start).Round(time.Millisecond),
			}
			if c.GetBool(ctxKeyAborted) {
				fields["aborted"] = true
			}
			entry.WithFields(fields).Info("request")
		}()
		c.Next()
	}
}

// Recovery turns panics into 500s while headers are still unsent. Once the
// response has started, or when a handler deliberately aborts with
// http.ErrAbortHandler, the panic is passed on so net/http drops the
// connection and the client sees a broken transfer.
func Recovery(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			requestLogger(c, log).WithField("panic", rec).Errorf("handler panic\n%s", debug.Stack())
			if c.Writer.Written() {
				c.Set(ctxKeyAborted, true)
				panic(http.ErrAbortHandler)
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "internal error"})
		}()
		c.Next()
	}
}

// RateLimit applies a token bucket per client IP. rps <= 0 disables it.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiters := newClientLimiters(rate.Limit(rps), burst, time.Now)
	return func(c *gin.Context) {
		if !limiters.allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, domain.ErrorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

const (
	limiterSweepThreshold = 4096
	limiterIdleTTL        = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func newClientLimiters(limit rate.Limit, burst int, now func() time.Time) *clientLimiters {
	return &clientLimiters{
		clients: make(map[string]*clientLimiter),
		limit:   limit,
		burst:   burst,
		now:     now,
	}
}

func (l *clientLimiters) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cl, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= limiterSweepThreshold {
			l.sweep(now)
		}
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// sweep drops idle clients. Caller holds mu.
func (l *clientLimiters) sweep(now time.Time) {
	for key, cl := range l.clients {
		if now.Sub(cl.lastSeen) > limiterIdleTTL {
			delete(l.clients, key)
		}
	}
}

// requestLogger returns the entry set by AccessLog, or fallback.
func requestLogger(c *gin.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if v, ok := c.Get(ctxKeyLogger); ok {
		if entry, ok := v.(logrus.FieldLogger); ok {
			return entry
		}
	}
	return fallback
}
