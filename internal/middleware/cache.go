package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/kakao-ledger/internal/config"
)

// Cached resources.  A mutation bumps the generation of every resource
// whose responses it can change.
const (
	ResourceCategories   = "categories"
	ResourceTransactions = "transactions"
	ResourceCalendar     = "calendar"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// CacheGenerations tracks a per-user, per-resource generation counter.
// Cached entries embed the generation in their key, so bumping it makes
// every older entry unreachable; they then expire on their TTL.
type CacheGenerations struct {
	rdb    *redis.Client
	prefix string
}

func NewCacheGenerations(rdb *redis.Client, prefix string) *CacheGenerations {
	if rdb == nil {
		return nil
	}
	return &CacheGenerations{rdb: rdb, prefix: prefix}
}

func (g *CacheGenerations) genKey(userID, resource string) string {
	return fmt.Sprintf("%s:gen:%s:%s", g.prefix, userID, resource)
}

// Current returns the generation for (userID, resource); 0 when unset.
func (g *CacheGenerations) Current(ctx context.Context, userID, resource string) (int64, error) {
	v, err := g.rdb.Get(ctx, g.genKey(userID, resource)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}

// Bump advances the generation of each resource for userID.
func (g *CacheGenerations) Bump(ctx context.Context, userID string, resources ...string) error {
	if g == nil || len(resources) == 0 {
		return nil
	}
	pipe := g.rdb.TxPipeline()
	for _, r := range resources {
		pipe.Incr(ctx, g.genKey(userID, r))
	}
	_, err := pipe.Exec(ctx)
	return err
}

// cacheKey builds the entry key: prefix, user, resource, generation and a
// hash of the route and query.  The user id is always part of the key so
// one user can never be served another user's response.
func cacheKey(prefix, userID, resource string, gen int64, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:u:%s:%s:g%d:%x", prefix, userID, resource, gen, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// NewRedisCache caches 200 responses of the configured methods for one
// resource, keyed per user.  It must run after SessionAuth.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, gens *CacheGenerations, resource string) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil || gens == nil {
		return passThrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			uid := currentUserID(c)
			if uid == "anon" {
				return next(c)
			}

			ctx := c.Request().Context()
			gen, err := gens.Current(ctx, uid, resource)
			if err != nil {
				return next(c)
			}
			key := cacheKey(cfg.Prefix, uid, resource, gen, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, "Content-Length") || strings.EqualFold(k, "X-Cache") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			// Truncated bodies are not stored.
			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			hdr := c.Response().Header().Clone()
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				_ = rdb.SetEx(context.WithoutCancel(ctx), key, payload, ttl).Err()
			}
			return nil
		}
	}
}

// WhenQuery applies mw only when every named query parameter is present.
// Requests relying on server-side defaults (such as the current month)
// bypass it.
func WhenQuery(mw echo.MiddlewareFunc, params ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		wrapped := mw(next)
		return func(c echo.Context) error {
			for _, p := range params {
				if strings.TrimSpace(c.QueryParam(p)) == "" {
					return next(c)
				}
			}
			return wrapped(c)
		}
	}
}

// InvalidateOn bumps the given resources for the current user after a
// successful (2xx) non-GET request.
func InvalidateOn(gens *CacheGenerations, resources ...string) echo.MiddlewareFunc {
	if gens == nil {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			m := c.Request().Method
			if err != nil || m == http.MethodGet || m == http.MethodHead {
				return err
			}
			if st := c.Response().Status; st < 200 || st > 299 {
				return nil
			}
			uid := currentUserID(c)
			if uid == "anon" {
				return nil
			}
			if bumpErr := gens.Bump(context.WithoutCancel(c.Request().Context()), uid, resources...); bumpErr != nil {
				slog.Warn("cache invalidation failed", "user_id", uid, "resources", resources, "error", bumpErr)
			}
			return nil
		}
	}
}
