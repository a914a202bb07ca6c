package api

import (
	"context"
	"net/http"

	"github.com/atlasrisk/engine/internal/atlaserr"
)

// classifyError maps an atlaserr.Kind onto the HTTP status spec §7 implies
// for it. A plain (non-atlaserr) error is always INTERNAL.
func classifyError(err error) (status int, code, message string) {
	ae, ok := err.(*atlaserr.Error)
	if !ok {
		return http.StatusInternalServerError, string(atlaserr.Internal), err.Error()
	}
	switch ae.Kind {
	case atlaserr.InvalidInput:
		return http.StatusBadRequest, ae.Code, ae.Message
	case atlaserr.ModelNotAvailable:
		return http.StatusServiceUnavailable, ae.Code, ae.Message
	case atlaserr.UpstreamDegraded:
		return http.StatusOK, ae.Code, ae.Message
	case atlaserr.Timeout:
		return http.StatusGatewayTimeout, ae.Code, ae.Message
	default:
		return http.StatusInternalServerError, ae.Code, ae.Message
	}
}

type requestIDCtxKey struct{}

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}
