package iam

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/telemetry"
)

type policyKind int

const (
	policyAuthority policyKind = iota + 1
	policyAnyKnownRole
)

// Policy is the access requirement of one endpoint.
type Policy struct {
	kind      policyKind
	authority string
}

// RequireAuthority admits principals holding exactly authority. No store read.
func RequireAuthority(authority string) Policy {
	return Policy{kind: policyAuthority, authority: authority}
}

// RequireAnyKnownRole admits principals holding at least one authority whose
// role currently exists in the role registry.
func RequireAnyKnownRole() Policy {
	return Policy{kind: policyAnyKnownRole}
}

func (p Policy) String() string {
	switch p.kind {
	case policyAuthority:
		return "authority:" + p.authority
	case policyAnyKnownRole:
		return "any_known_role"
	default:
		return "invalid"
	}
}

// Reason explains a denial.
type Reason string

const (
	ReasonUnauthenticated Reason = "UNAUTHENTICATED"
	ReasonForbidden       Reason = "FORBIDDEN"
)

// Decision is the outcome of Evaluate. Err is set on every denial and wraps
// ErrUnauthenticated, ErrForbidden or ErrStoreUnavailable.
type Decision struct {
	Allowed bool
	Reason  Reason
	Err     error
}

// Evaluator decides policies. It holds no per-request state.
type Evaluator struct {
	registry RoleNameSource
	metrics  *telemetry.AuthMetrics
	logger   *slog.Logger
}

func NewEvaluator(registry RoleNameSource, metrics *telemetry.AuthMetrics, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{registry: registry, metrics: metrics, logger: logger}
}

// Evaluate decides whether principal satisfies policy. A nil principal is
// denied before any registry read.
func (e *Evaluator) Evaluate(ctx context.Context, principal *auth.Principal, policy Policy) Decision {
	d := e.evaluate(ctx, principal, policy)
	e.metrics.RecordDecision(ctx, policy.String(), d.Allowed, string(d.Reason))
	return d
}

func (e *Evaluator) evaluate(ctx context.Context, principal *auth.Principal, policy Policy) Decision {
	if principal == nil {
		return deny(ReasonUnauthenticated, ErrUnauthenticated)
	}

	switch policy.kind {
	case policyAuthority:
		if principal.HasAuthority(policy.authority) {
			return Decision{Allowed: true}
		}
		return deny(ReasonForbidden, fmt.Errorf("%w: requires %s", ErrForbidden, policy.authority))

	case policyAnyKnownRole:
		return e.evaluateAnyKnownRole(ctx, principal)

	default:
		return deny(ReasonForbidden, fmt.Errorf("%w: unknown policy", ErrForbidden))
	}
}

func (e *Evaluator) evaluateAnyKnownRole(ctx context.Context, principal *auth.Principal) Decision {
	ctx, span := telemetry.StartSpan(ctx, telemetry.TracerIAM, "iam.EvaluateAnyKnownRole",
		attribute.String(telemetry.AttrPrincipalSubject, principal.Subject),
	)
	defer span.End()

	names, err := e.registry.RoleNames(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		e.logger.ErrorContext(ctx, "role registry unavailable, denying request",
			"subject", principal.Subject, "error", err)
		return deny(ReasonForbidden, storeError("read role registry", err))
	}

	known := make(map[string]struct{}, len(names))
	for _, name := range names {
		known[auth.RoleAuthority(name)] = struct{}{}
	}
	for _, authority := range principal.Authorities {
		if _, ok := known[authority]; ok {
			span.SetAttributes(attribute.Bool(telemetry.AttrPolicyAllowed, true))
			return Decision{Allowed: true}
		}
	}

	span.SetAttributes(attribute.Bool(telemetry.AttrPolicyAllowed, false))
	return deny(ReasonForbidden, fmt.Errorf("%w: no known role", ErrForbidden))
}

func deny(reason Reason, err error) Decision {
	return Decision{Reason: reason, Err: err}
}
