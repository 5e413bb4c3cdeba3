package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware returns a middleware that traces HTTP requests using OpenTelemetry
// It wraps the official otelgin middleware and adds custom span attributes
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	base := otelgin.Middleware(serviceName)

	return func(c *gin.Context) {
		base(c)

		// Add custom span attributes after otelgin processes
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if userID := c.GetString("user_id"); userID != "" {
				span.SetAttributes(attribute.String("user.id", userID))
			}

			// Feed query attributes
			if section := c.Query("section"); section != "" {
				span.SetAttributes(attribute.String("feed.section", section))
			}
			if communityID := c.Query("community_id"); communityID != "" {
				span.SetAttributes(attribute.String("feed.community_id", communityID))
			}
			if limit := c.Query("limit"); limit != "" {
				span.SetAttributes(attribute.String("query.limit", limit))
			}
			if page := c.Query("page"); page != "" {
				span.SetAttributes(attribute.String("query.page", page))
			}

			// Record Gin errors as span events
			if len(c.Errors) > 0 {
				for _, ginErr := range c.Errors {
					if ginErr.Err != nil {
						span.RecordError(ginErr.Err, trace.WithStackTrace(true))
						span.SetStatus(codes.Error, ginErr.Error())
					}
				}
			}
		}
	}
}
