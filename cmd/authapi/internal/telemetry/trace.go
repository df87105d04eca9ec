package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer names, one per instrumented package.
const (
	TracerIAM  = "authapi/services/iam"
	TracerHTTP = "authapi/http"
)

// StartSpan creates a new span for a service operation.
//
//	ctx, span := telemetry.StartSpan(ctx, telemetry.TracerIAM, "iam.Authenticate",
//	    attribute.String(telemetry.AttrPrincipalSubject, email),
//	)
//	defer span.End()
func StartSpan(ctx context.Context, tracerName, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// RecordError records err on the span and marks the span failed.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// AddEvent adds a named business event to the span.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Attribute keys
const (
	AttrPrincipalSubject = "principal.subject"
	AttrPrincipalRoles   = "principal.roles"

	AttrRoleName    = "role.name"
	AttrRoleCreated = "role.created"

	AttrPolicy         = "authz.policy"
	AttrPolicyAllowed  = "authz.allowed"
	AttrDecisionReason = "authz.reason"

	AttrTokenType = "token.type"
)
