package sdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/luisolivares/api-rest-security-jwt/pkg/sdk"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// newSDKClient routes client requests straight into handler.
func newSDKClient(handler http.Handler, baseURL string) *sdk.Client {
	transport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		resp := recorder.Result()
		resp.Request = req
		return resp, nil
	})

	return sdk.NewClient(baseURL, sdk.WithHTTPClient(&http.Client{Transport: transport}))
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "error": nil})
}

func writeFailure(w http.ResponseWriter, status int, code, message string, details ...string) {
	if details == nil {
		details = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data":  nil,
		"error": map[string]any{"status": status, "code": code, "message": message, "errors": details},
	})
}

func TestClient_Login(t *testing.T) {
	expires := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantErr  bool
		wantCode string
	}{
		{
			name: "success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var body map[string]string
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("decode body: %v", err)
				}
				if body["email"] != "a@x.com" || body["password"] != "secret" {
					t.Errorf("unexpected body %v", body)
				}
				writeEnvelope(w, http.StatusOK, map[string]any{
					"token":                 "access",
					"refreshToken":          "refresh",
					"tokenType":             "Bearer",
					"tokenExpiresAt":        expires,
					"refreshTokenExpiresAt": expires.Add(time.Hour),
				})
			},
		},
		{
			name: "rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeFailure(w, http.StatusUnauthorized, sdk.CodeAuthenticationFailed, "authentication failed")
			},
			wantErr:  true,
			wantCode: sdk.CodeAuthenticationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /api/v1/auth/token", tt.handler)
			client := newSDKClient(mux, "http://example.com/")

			pair, err := client.Login(context.Background(), "a@x.com", "secret")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				var apiErr *sdk.APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("Login() error = %T, want *sdk.APIError", err)
				}
				if apiErr.Code != tt.wantCode || !sdk.IsUnauthorized(err) {
					t.Errorf("Login() error = %+v", apiErr)
				}
				return
			}

			if pair.Token != "access" || pair.RefreshToken != "refresh" {
				t.Errorf("Login() pair = %+v", pair)
			}
			if !pair.TokenExpiresAt.Equal(expires) {
				t.Errorf("Login() TokenExpiresAt = %v, want %v", pair.TokenExpiresAt, expires)
			}
		})
	}
}

func TestClient_Login_RequiresInput(t *testing.T) {
	client := sdk.NewClient("http://example.com")
	if _, err := client.Login(context.Background(), "", "secret"); err == nil {
		t.Fatal("Login() with empty email succeeded")
	}
}

func TestClient_ListRoles_Query(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/roles", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pageNo"); got != "2" {
			t.Errorf("pageNo = %q, want 2", got)
		}
		if got := r.URL.Query().Get("pageSize"); got != "5" {
			t.Errorf("pageSize = %q, want 5", got)
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"content":       []map[string]string{{"id": "1", "tipoRol": "ESTANDAR", "descripcion": "default"}},
			"pageNo":        2,
			"pageSize":      5,
			"totalElements": 11,
			"totalPages":    3,
		})
	})
	client := newSDKClient(mux, "http://example.com")

	page, err := client.ListRoles(context.Background(), sdk.PageOptions{PageNo: 2, PageSize: 5})
	if err != nil {
		t.Fatalf("ListRoles() error = %v", err)
	}
	if len(page.Content) != 1 || page.Content[0].Name != "ESTANDAR" {
		t.Errorf("ListRoles() content = %+v", page.Content)
	}
	if page.Content[0].Authority() != "ROLE_ESTANDAR" {
		t.Errorf("Authority() = %q", page.Content[0].Authority())
	}
	if page.HasNext() {
		t.Error("HasNext() on last page = true")
	}
}

func TestClient_ListAllRoles_Pages(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/roles", func(w http.ResponseWriter, r *http.Request) {
		calls++
		pageNo := r.URL.Query().Get("pageNo")
		name := "FIRST"
		no := 0
		if pageNo == "1" {
			name, no = "SECOND", 1
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"content":       []map[string]string{{"tipoRol": name}},
			"pageNo":        no,
			"pageSize":      100,
			"totalElements": 2,
			"totalPages":    2,
		})
	})
	client := newSDKClient(mux, "http://example.com")

	roles, err := client.ListAllRoles(context.Background())
	if err != nil {
		t.Fatalf("ListAllRoles() error = %v", err)
	}
	if calls != 2 || len(roles) != 2 || roles[1].Name != "SECOND" {
		t.Errorf("ListAllRoles() = %+v after %d calls", roles, calls)
	}
}

func TestClient_DeleteUser_NoContent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/usuarios/{tipo}/{doc}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("tipo") != "CEDULA" || r.PathValue("doc") != "123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	client := newSDKClient(mux, "http://example.com")

	if err := client.DeleteUser(context.Background(), "CEDULA", "123"); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
}

func TestClient_GetUser_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/usuarios/{tipo}/{doc}", func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, sdk.CodeNotFound, "user not found")
	})
	client := newSDKClient(mux, "http://example.com")

	_, err := client.GetUser(context.Background(), "CEDULA", "999")
	if !sdk.IsNotFound(err) {
		t.Fatalf("GetUser() error = %v, want 404", err)
	}
}

func TestClient_ValidationDetails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/registros", func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusBadRequest, sdk.CodeValidationFailed, "invalid request", "/email: is not valid email")
	})
	client := newSDKClient(mux, "http://example.com")

	_, err := client.Register(context.Background(), sdk.RegisterInput{Email: "bad", Role: "ESTANDAR"})
	var apiErr *sdk.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Register() error = %v, want *sdk.APIError", err)
	}
	if len(apiErr.Errors) != 1 || apiErr.Status != http.StatusBadRequest {
		t.Errorf("Register() error = %+v", apiErr)
	}
	want := "400 VALIDATION_FAILED: invalid request (/email: is not valid email)"
	if apiErr.Error() != want {
		t.Errorf("Error() = %q, want %q", apiErr.Error(), want)
	}
}

func TestClient_NonEnvelopeFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	})
	client := newSDKClient(handler, "http://example.com")

	_, err := client.Me(context.Background())
	var apiErr *sdk.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway || apiErr.Code != sdk.CodeUnknown {
		t.Fatalf("Me() error = %v, want 502 UNKNOWN", err)
	}
}
