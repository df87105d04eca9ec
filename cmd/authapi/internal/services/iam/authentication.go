package iam

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/repository"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/telemetry"
)

const (
	flowPassword = "password"
	flowRefresh  = "refresh"
)

func (s *iamService) Authenticate(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	email = NormalizeEmail(email)
	ctx, span := telemetry.StartSpan(ctx, telemetry.TracerIAM, "iam.Authenticate",
		attribute.String(telemetry.AttrPrincipalSubject, email),
	)
	defer span.End()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		err = mapUserError("authenticate", err)
		if errors.Is(err, ErrPrincipalNotFound) {
			s.burnPasswordCheck(password)
			s.metrics.RecordAttempt(ctx, flowPassword, telemetry.OutcomeUnknownPrincipal)
			s.logger.InfoContext(ctx, "login failed", "subject", email, "reason", "unknown principal")
		} else {
			s.metrics.RecordAttempt(ctx, flowPassword, telemetry.OutcomeError)
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		// A stored hash bcrypt cannot read is corrupt data, not a bad password.
		s.metrics.RecordAttempt(ctx, flowPassword, telemetry.OutcomeError)
		s.logger.ErrorContext(ctx, "stored password hash is unreadable", "subject", email, "error", err)
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("authenticate %s: %w", email, err)
	}
	if !ok {
		s.metrics.RecordAttempt(ctx, flowPassword, telemetry.OutcomeInvalidCredentials)
		s.logger.InfoContext(ctx, "login failed", "subject", email, "reason", "invalid credentials")
		telemetry.AddEvent(span, "authentication.failed")
		return nil, fmt.Errorf("authenticate: %w", ErrInvalidCredentials)
	}

	pair, err := s.issue(ctx, user, flowPassword)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.metrics.RecordAttempt(ctx, flowPassword, telemetry.OutcomeSuccess)
	s.logger.InfoContext(ctx, "login succeeded", "subject", email, "roles", len(user.Roles))
	return pair, nil
}

func (s *iamService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.TracerIAM, "iam.Refresh",
		attribute.String(telemetry.AttrTokenType, string(auth.TokenTypeRefresh)),
	)
	defer span.End()

	claims, err := s.tokens.Parse(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		s.metrics.RecordAttempt(ctx, flowRefresh, telemetry.OutcomeInvalidToken)
		s.logger.DebugContext(ctx, "refresh token rejected", "error", err)
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("refresh: %w: %w", ErrInvalidCredentials, err)
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		err = mapUserError("refresh", err)
		outcome := telemetry.OutcomeError
		if errors.Is(err, ErrPrincipalNotFound) {
			outcome = telemetry.OutcomeUnknownPrincipal
		}
		s.metrics.RecordAttempt(ctx, flowRefresh, outcome)
		telemetry.RecordError(span, err)
		return nil, err
	}

	pair, err := s.issue(ctx, user, flowRefresh)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.metrics.RecordAttempt(ctx, flowRefresh, telemetry.OutcomeSuccess)
	s.logger.DebugContext(ctx, "tokens refreshed", "subject", user.Email)
	return pair, nil
}

func (s *iamService) issue(ctx context.Context, user *models.User, flow string) (*auth.TokenPair, error) {
	pair, err := s.tokens.IssuePair(user.Email, user.Authorities())
	if err != nil {
		s.metrics.RecordAttempt(ctx, flow, telemetry.OutcomeError)
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, nil
}

// burnPasswordCheck spends one bcrypt verification on a throwaway hash.
func (s *iamService) burnPasswordCheck(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-password")
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

func (s *iamService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.register(ctx, in, s.allowAdminRegistration)
}

func (s *iamService) CreateUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.register(ctx, in, true)
}

func (s *iamService) register(ctx context.Context, in RegisterInput, allowAdmin bool) (*models.User, error) {
	p := profile{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Gender:         in.Gender,
		DocumentType:   in.DocumentType,
		DocumentNumber: in.DocumentNumber,
		Phone:          in.Phone,
		Email:          in.Email,
		Password:       in.Password,
	}
	if err := p.normalize(); err != nil {
		return nil, err
	}

	roleName := models.NormalizeRoleName(in.Role)
	if roleName == "" {
		return nil, invalidInput("tipoRol is required")
	}
	if roleName == s.adminRole && !allowAdmin {
		return nil, fmt.Errorf("register: %w: self-registration with role %s is disabled", ErrForbidden, roleName)
	}

	ctx, span := telemetry.StartSpan(ctx, telemetry.TracerIAM, "iam.Register",
		attribute.String(telemetry.AttrPrincipalSubject, p.Email),
		attribute.String(telemetry.AttrRoleName, roleName),
	)
	defer span.End()

	// Hash outside the transaction; bcrypt is slow and SQLite has one connection.
	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, invalidInput("%v", err)
	}

	var (
		user        *models.User
		roleCreated bool
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context, users repository.UserRepository, roles repository.RoleRepository) error {
		if _, err := users.GetByEmail(ctx, p.Email); err == nil {
			return fmt.Errorf("register %s: %w", p.Email, ErrDuplicatePrincipal)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return storeError("register", err)
		}

		role, created, err := roles.EnsureByName(ctx, roleName, "")
		if err != nil {
			return mapRoleError("register", err)
		}
		roleCreated = created

		u := &models.User{}
		p.apply(u, hash)
		if err := users.Create(ctx, u); err != nil {
			return mapUserError("register", err)
		}
		if err := users.AssignRoles(ctx, u.ID, role.ID); err != nil {
			return storeError("register", err)
		}

		user, err = users.GetByID(ctx, u.ID)
		if err != nil {
			return storeError("register", err)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Bool(telemetry.AttrRoleCreated, roleCreated))
	if roleCreated {
		s.registry.Invalidate()
		s.logger.WarnContext(ctx, "role created implicitly during registration",
			"role", roleName, "subject", user.Email)
	}
	s.logger.InfoContext(ctx, "user registered", "subject", user.Email, "role", roleName)
	return user, nil
}
