package middleware

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
)

const defaultRedisPrefix = "rl"

// defaultLimiterIdleTTL через столько неактивный клиент удаляется из памяти
const defaultLimiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter token bucket на каждого клиента в памяти процесса
type LocalLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
	clients   *ClientResolver
	logger    Logger
}

// NewLocalLimiter создает лимитер на requestsPerMinute запросов с запасом burst.
// clients может быть nil: тогда клиент определяется только по RemoteAddr
func NewLocalLimiter(requestsPerMinute, burst int, clients *ClientResolver, logger Logger) *LocalLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burst <= 0 {
		burst = 1
	}
	return &LocalLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
		idleTTL:  defaultLimiterIdleTTL,
		now:      time.Now,
		clients:  clients,
		logger:   logger,
	}
}

// WithIdleTTL задает время жизни неактивного клиента
func (l *LocalLimiter) WithIdleTTL(ttl time.Duration) *LocalLimiter {
	if ttl > 0 {
		l.idleTTL = ttl
	}
	return l
}

func (l *LocalLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	entry, ok := l.limiters[key]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweep удаляет клиентов, не приходивших дольше idleTTL. Вызывается под mu
func (l *LocalLimiter) sweep(now time.Time) {
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= l.idleTTL {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}

// Size количество клиентов, отслеживаемых лимитером
func (l *LocalLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Middleware отвечает 429, когда у клиента закончились токены
func (l *LocalLimiter) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := l.clients.Key(r)
			if !l.get(key).Allow() {
				l.logger.Warn("%s %s - Rate limit exceeded: client=%s", r.Method, r.URL.Path, key)
				handlers.RespondTooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedisRateLimiter фиксированное окно в Redis, общее для всех экземпляров сервиса
type RedisRateLimiter struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
	prefix  string
	clients *ClientResolver
	logger  Logger
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func NewRedisRateLimiter(rdb redis.Scripter, limit int, window time.Duration, prefix string, clients *ClientResolver, logger Logger) *RedisRateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisRateLimiter{rdb: rdb, limit: limit, window: window, prefix: prefix, clients: clients, logger: logger}
}

// Middleware при недоступном Redis пропускает запрос (fail open), доступность слотов важнее лимита
func (l *RedisRateLimiter) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := l.prefix + ":" + l.clients.Key(r)

			count, err := l.incr(r.Context(), key)
			if err != nil {
				l.logger.Warn("%s %s - Redis rate limiter unavailable: %v", r.Method, r.URL.Path, err)
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(l.limit) {
				l.logger.Warn("%s %s - Rate limit exceeded: client=%s, count=%d", r.Method, r.URL.Path, key, count)
				handlers.RespondTooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *RedisRateLimiter) incr(ctx context.Context, key string) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("rate limit script: %w", err)
	}
	return res, nil
}

// ErrInvalidTrustedProxy возвращается для некорректного адреса доверенного прокси
var ErrInvalidTrustedProxy = errors.New("middleware: invalid trusted proxy")

// ClientResolver определяет адрес клиента для лимитов.
// X-Forwarded-For учитывается только если запрос пришел от доверенного прокси
type ClientResolver struct {
	trusted []*net.IPNet
}

// NewClientResolver принимает список доверенных прокси: CIDR или одиночные IP
func NewClientResolver(trustedProxies []string) (*ClientResolver, error) {
	resolver := &ClientResolver{}
	for _, raw := range trustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !strings.Contains(raw, "/") {
			ip := net.ParseIP(raw)
			if ip == nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidTrustedProxy, raw)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 8 * net.IPv4len
			}
			resolver.trusted = append(resolver.trusted, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTrustedProxy, raw, err)
		}
		resolver.trusted = append(resolver.trusted, network)
	}
	return resolver, nil
}

func (c *ClientResolver) isTrusted(ip net.IP) bool {
	if c == nil || ip == nil {
		return false
	}
	for _, network := range c.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// Key адрес клиента: RemoteAddr без порта, а за доверенным прокси
// крайний правый адрес X-Forwarded-For, не принадлежащий доверенным прокси
func (c *ClientResolver) Key(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if !c.isTrusted(net.ParseIP(host)) {
		return host
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		ip := net.ParseIP(strings.TrimSpace(hops[i]))
		if ip == nil {
			break
		}
		host = ip.String()
		if !c.isTrusted(ip) {
			break
		}
	}
	return host
}
