package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"golang.org/x/crypto/bcrypt"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/bunx"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/migrations"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/repository"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/iam"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/validation"
)

const adminAuthority = "ROLE_ADMINISTRADOR"

type testServer struct {
	db      *bun.DB
	handler http.Handler
	tokens  *auth.TokenCodec
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := bunx.NewDB(ctx, fmt.Sprintf("file:server_%s?mode=memory&cache=shared", name), bunx.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrator := migrate.NewMigrator(db, migrations.Migrations)
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	tokens, err := auth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"),
		auth.WithAccessTTL(15*time.Minute), auth.WithRefreshTTL(time.Hour))
	require.NoError(t, err)

	roles := repository.NewBunRoleRepository(db)
	registry := iam.NewRoleRegistry(roles, 0)
	svc, err := iam.NewIAMService(iam.IAMServiceDependencies{
		Users:    repository.NewBunUserRepository(db),
		Roles:    roles,
		Tx:       repository.NewBunTransactor(db),
		Hasher:   auth.NewBcryptHasher(bcrypt.MinCost),
		Tokens:   tokens,
		Registry: registry,
	}, iam.IAMServiceOptions{AdminRole: "ADMINISTRADOR", AllowAdminRegistration: true})
	require.NoError(t, err)

	validator, err := validation.NewSchemaValidator(8)
	require.NoError(t, err)

	handler := NewRouter(RouterOptions{
		IAMService:     svc,
		Authenticator:  iam.NewBearerAuthenticator(tokens),
		Evaluator:      iam.NewEvaluator(registry, nil, nil),
		Validator:      validator,
		AdminAuthority: adminAuthority,
		PublicPaths:    []string{"/health", "/api/v1/healthz", "/api/v1/auth/", "/api-docs/"},
		Info:           ServiceInfo{Name: "authapi", Description: "test", Version: "dev"},
		HealthCheck:    db.PingContext,
	})

	return &testServer{db: db, handler: handler, tokens: tokens}
}

type response struct {
	Code int
	Body envelopeBody
	Raw  []byte
}

type envelopeBody struct {
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	res := response{Code: rec.Code, Raw: rec.Body.Bytes()}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res.Body), rec.Body.String())
	}
	return res
}

func (r response) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body.Data, dst))
}

func registerBody(email, document, role string) map[string]string {
	return map[string]string{
		"nombres":         "Juan Carlos",
		"apellidos":       "Ramirez Torres",
		"genero":          "MASCULINO",
		"tipoDocumento":   "CEDULA",
		"numeroDocumento": document,
		"telefono":        "987654321",
		"email":           email,
		"password":        "secret",
		"tipoRol":         role,
	}
}

// login registers a user with role and returns its access token.
func (s *testServer) login(t *testing.T, email, document, role string) tokenResponse {
	t.Helper()
	res := s.do(t, http.MethodPost, "/api/v1/auth/registros", "", registerBody(email, document, role))
	require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))

	res = s.do(t, http.MethodPost, "/api/v1/auth/token", "", map[string]string{"email": email, "password": "secret"})
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))

	var tok tokenResponse
	res.decode(t, &tok)
	return tok
}
