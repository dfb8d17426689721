package graphql

import (
	"context"
	"encoding/json"
	"net/http"

	"giftshop.GO/catalog"
)

// Context keys for resolver injection (avoids circular imports).
type contextKey string

const CtxKeyScreen contextKey = "screen"

// The screen a request renders for decides its default page size.
// Resolved from: Screen header > __Screen query param > JSON variables.__Screen
const (
	HeaderScreen     = "Screen"
	QueryParamScreen = "__Screen"
	VarScreen        = "__Screen"
)

// ScreenFromContext returns the screen for the current request, home when unset.
func ScreenFromContext(ctx context.Context) catalog.Screen {
	if v, ok := ctx.Value(CtxKeyScreen).(catalog.Screen); ok {
		return v
	}
	return catalog.ScreenHome
}

// WithScreen attaches screen to context.
func WithScreen(ctx context.Context, screen catalog.Screen) context.Context {
	return context.WithValue(ctx, CtxKeyScreen, screen)
}

// GetScreen extracts the screen from the header or query param. body is the
// POST payload, nil for GET.
func GetScreen(r *http.Request, body []byte) catalog.Screen {
	if h := r.Header.Get(HeaderScreen); h != "" {
		return catalog.ParseScreen(h)
	}
	if q := r.URL.Query().Get(QueryParamScreen); q != "" {
		return catalog.ParseScreen(q)
	}
	if s, ok := ParseScreenFromVariables(body); ok {
		return s
	}
	return catalog.ScreenHome
}

// ParseScreenFromVariables reads variables.__Screen from a JSON body.
func ParseScreenFromVariables(body []byte) (catalog.Screen, bool) {
	if len(body) == 0 {
		return "", false
	}
	var payload struct {
		Variables map[string]interface{} `json:"variables"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Variables == nil {
		return "", false
	}
	if v, ok := payload.Variables[VarScreen].(string); ok && v != "" {
		return catalog.ParseScreen(v), true
	}
	return "", false
}
