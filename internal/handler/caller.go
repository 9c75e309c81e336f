package handler

import (
	"context"
	"net/http"

	"github.com/anatole0000/book-store/internal/domain"
)

type contextKey int

const callerContextKey contextKey = iota

// HeaderUserID identifies the acting user on API requests
const HeaderUserID = "X-User-ID"

// WithCaller attaches the resolved caller to the request context. The auth
// middleware is the only writer.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// CallerFromRequest returns the caller resolved by the auth middleware. The
// zero caller (anonymous, unprivileged) comes back when no middleware ran.
func CallerFromRequest(r *http.Request) domain.Caller {
	if caller, ok := r.Context().Value(callerContextKey).(domain.Caller); ok {
		return caller
	}
	return domain.Caller{}
}

// requireUser rejects requests that carry no user identity
func requireUser(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	caller := CallerFromRequest(r)
	if caller.UserID == "" {
		respondError(w, http.StatusBadRequest, ErrMsgUserIDRequired)
		return domain.Caller{}, false
	}
	return caller, true
}
