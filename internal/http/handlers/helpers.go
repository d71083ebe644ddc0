package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

// RequestLogger returns fasthttp middleware that logs method, path, status, duration.
func RequestLogger(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		status := ctx.Response.StatusCode()
		log.Printf("%s %s -> %d (%s) ip=%s", ctx.Method(), ctx.Path(), status, time.Since(start), ctx.RemoteAddr())
		observeRequest(requestRoute(ctx), string(ctx.Method()), status)
	}
}

// requestRoute returns the matched route template rather than the raw
// path, keeping per-id paths out of the metric label set. Requires
// SaveMatchedRoutePath on the router.
func requestRoute(ctx *fasthttp.RequestCtx) string {
	if route, ok := ctx.UserValue(router.MatchedRoutePathParam).(string); ok && route != "" {
		return route
	}
	return "unmatched"
}

func jsonResponse(ctx *fasthttp.RequestCtx, data any) {
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(data)
	ctx.SetBody(body)
}

func errResponse(ctx *fasthttp.RequestCtx, code int, msg string) {
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(map[string]string{"detail": msg})
	ctx.SetBody(body)
}

// pathID reads a numeric path segment bound by the router, e.g. {id}.
func pathID(ctx *fasthttp.RequestCtx, name string) (uint, bool) {
	raw, _ := ctx.UserValue(name).(string)
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// noMax marks a parameter with no meaningful upper bound.
const noMax = 1 << 30

// queryInt reads an integer query parameter. Absent parameters fall back
// to def; malformed or out-of-range values answer 400 and return ok=false.
func queryInt(ctx *fasthttp.RequestCtx, key string, def, min, max int) (int, bool) {
	raw := string(ctx.QueryArgs().Peek(key))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		msg := fmt.Sprintf("%s must be an integer between %d and %d", key, min, max)
		if max == noMax {
			msg = fmt.Sprintf("%s must be an integer of at least %d", key, min)
		}
		errResponse(ctx, fasthttp.StatusBadRequest, msg)
		return 0, false
	}
	return n, true
}

// queryUint reads an optional numeric query parameter; 0 means absent.
func queryUint(ctx *fasthttp.RequestCtx, key string) uint {
	raw := string(ctx.QueryArgs().Peek(key))
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

func queryBool(ctx *fasthttp.RequestCtx, key string, def bool) bool {
	raw := string(ctx.QueryArgs().Peek(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

// Health reports liveness.
func Health(ctx *fasthttp.RequestCtx) {
	jsonResponse(ctx, map[string]string{"status": "healthy"})
}
