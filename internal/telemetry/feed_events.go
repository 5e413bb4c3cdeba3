package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FeedEvents provides helper methods for tracing feed assembly. These
// are higher-level spans than the HTTP/DB instrumentation: one span per
// feed build, with the merge outcome recorded on it.
type FeedEvents struct {
	tracer trace.Tracer
}

// NewFeedEvents creates a new feed events tracer
func NewFeedEvents() *FeedEvents {
	return &FeedEvents{
		tracer: otel.Tracer("feed-events"),
	}
}

// TraceBuildFeed creates a span for a personal feed build
func (fe *FeedEvents) TraceBuildFeed(ctx context.Context, userID string, section string) (context.Context, trace.Span) {
	ctx, span := fe.tracer.Start(ctx, "feed.build",
		trace.WithAttributes(
			attribute.String("feed.type", "personal"),
			attribute.String("user.id", userID),
		),
	)
	if section != "" {
		span.SetAttributes(attribute.String("feed.section", section))
	}
	return ctx, span
}

// TraceCommunityFeed creates a span for a community feed build
func (fe *FeedEvents) TraceCommunityFeed(ctx context.Context, communityID string, page int) (context.Context, trace.Span) {
	ctx, span := fe.tracer.Start(ctx, "feed.build",
		trace.WithAttributes(
			attribute.String("feed.type", "community"),
			attribute.String("community.id", communityID),
			attribute.Int("feed.page", page),
		),
	)
	return ctx, span
}

// EndFeedSpan records the merge outcome and closes the span. A failed
// source does not fail the span; only a feed-level error does.
func EndFeedSpan(span trace.Span, itemCount int, failedSources int, err error) {
	span.SetAttributes(
		attribute.Int("feed.item_count", itemCount),
		attribute.Int("feed.failed_sources", failedSources),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	span.End()
}
