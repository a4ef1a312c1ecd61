package ctxutil

import (
	"context"

	"orderservice/api/response"
	"orderservice/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// WithRequestID returns the request context carrying the gin request id
func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	if requestID == "" || persistence.RequestIDFromContext(ctx.Request.Context()) == requestID {
		return ctx.Request.Context()
	}
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}
