package iam

import (
	"errors"
	"log/slog"
	"net/mail"
	"slices"
	"strings"
	"sync"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/repository"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/telemetry"
)

// iamService implements the Service interface.
type iamService struct {
	users  repository.UserRepository
	roles  repository.RoleRepository
	tx     repository.Transactor
	hasher auth.PasswordHasher
	tokens *auth.TokenCodec

	registry *RoleRegistry
	metrics  *telemetry.AuthMetrics
	logger   *slog.Logger

	adminRole              string
	allowAdminRegistration bool

	// dummyHash is verified against when the user does not exist so unknown
	// and known emails cost the same bcrypt work.
	dummyOnce sync.Once
	dummyHash string
}

// IAMServiceDependencies contains all dependencies for IAM service construction.
type IAMServiceDependencies struct {
	Users    repository.UserRepository
	Roles    repository.RoleRepository
	Tx       repository.Transactor
	Hasher   auth.PasswordHasher
	Tokens   *auth.TokenCodec
	Registry *RoleRegistry

	// Optional
	Metrics *telemetry.AuthMetrics
	Logger  *slog.Logger
}

// IAMServiceOptions carries policy settings from configuration.
type IAMServiceOptions struct {
	// AdminRole is the administrator role name, without the ROLE_ prefix.
	AdminRole string
	// AllowAdminRegistration lets Register assign AdminRole.
	AllowAdminRegistration bool
}

// NewIAMService creates the IAM service.
func NewIAMService(deps IAMServiceDependencies, opts IAMServiceOptions) (Service, error) {
	switch {
	case deps.Users == nil, deps.Roles == nil, deps.Tx == nil:
		return nil, errors.New("iam: user repository, role repository and transactor are required")
	case deps.Hasher == nil:
		return nil, errors.New("iam: password hasher is required")
	case deps.Tokens == nil:
		return nil, errors.New("iam: token codec is required")
	case deps.Registry == nil:
		return nil, errors.New("iam: role registry is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	adminRole := models.NormalizeRoleName(opts.AdminRole)
	if adminRole == "" {
		return nil, errors.New("iam: admin role is required")
	}

	return &iamService{
		users:                  deps.Users,
		roles:                  deps.Roles,
		tx:                     deps.Tx,
		hasher:                 deps.Hasher,
		tokens:                 deps.Tokens,
		registry:               deps.Registry,
		metrics:                deps.Metrics,
		logger:                 logger.With("component", "iam"),
		adminRole:              adminRole,
		allowAdminRegistration: opts.AllowAdminRegistration,
	}, nil
}

// NormalizeEmail trims and lower-cases a login identifier.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	genders       = []string{models.GenderMale, models.GenderFemale, models.GenderOther}
	documentTypes = []string{models.DocumentCitizenID, models.DocumentPassport, models.DocumentForeignID, models.DocumentMinorID}
)

type profile struct {
	FirstName      string
	LastName       string
	Gender         string
	DocumentType   string
	DocumentNumber string
	Phone          string
	Email          string
	Password       string
}

// normalize trims fields, upper-cases enums and lower-cases the email, then
// validates them. Request bodies are already schema-checked by the HTTP layer;
// this guards the CLI path and keeps the service self-contained.
func (p *profile) normalize() error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Gender = strings.ToUpper(strings.TrimSpace(p.Gender))
	p.DocumentType = strings.ToUpper(strings.TrimSpace(p.DocumentType))
	p.DocumentNumber = strings.TrimSpace(p.DocumentNumber)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = NormalizeEmail(p.Email)

	if p.FirstName == "" || p.LastName == "" {
		return invalidInput("nombres and apellidos are required")
	}
	if !slices.Contains(genders, p.Gender) {
		return invalidInput("genero must be one of %s", strings.Join(genders, ", "))
	}
	if !slices.Contains(documentTypes, p.DocumentType) {
		return invalidInput("tipoDocumento must be one of %s", strings.Join(documentTypes, ", "))
	}
	if p.DocumentNumber == "" {
		return invalidInput("numeroDocumento is required")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil || p.Email == "" {
		return invalidInput("email is not a valid address")
	}
	if p.Password == "" {
		return invalidInput("password is required")
	}
	return nil
}

func (p *profile) apply(u *models.User, passwordHash string) {
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.Gender = p.Gender
	u.DocumentType = p.DocumentType
	u.DocumentNumber = p.DocumentNumber
	u.Phone = p.Phone
	u.Email = p.Email
	u.PasswordHash = passwordHash
}
