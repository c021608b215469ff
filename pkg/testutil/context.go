package testutil

import (
	"net/http"
	"time"

	"fiscaldesk/pkg/requestcontext"
)

// WithAuth stamps the request context with an authenticated principal and
// privilege tier, simulating what the auth middleware would do.
func WithAuth(req *http.Request, actor, role string) *http.Request {
	ctx := requestcontext.WithActor(req.Context(), actor)
	ctx = requestcontext.WithRole(ctx, role)
	return req.WithContext(ctx)
}

// WithFrozenTime pins the request-scoped reference time, the same way the
// request-time middleware does at the start of a real request.
func WithFrozenTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
