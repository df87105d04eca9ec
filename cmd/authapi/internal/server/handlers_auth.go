package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/validation"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// decodeBody validates the request body against schema and decodes it into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, v validation.Validator, schema string, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &validation.Error{Schema: schema, Violations: []string{"request body too large"}}
		}
		return &validation.Error{Schema: schema, Violations: []string{"request body could not be read"}}
	}
	if err := v.Validate(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &validation.Error{Schema: schema, Violations: []string{err.Error()}}
	}
	return nil
}

// HandleRegister handles POST /api/v1/auth/registros.
func HandleRegister(svc iamHandlerService, v validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userRequest
		if err := decodeBody(w, r, v, validation.SchemaRegister, &req); err != nil {
			writeError(w, r, err)
			return
		}

		user, err := svc.Register(r.Context(), req.registerInput())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, r, http.StatusCreated, newUserDTO(user))
	}
}

// HandleToken handles POST /api/v1/auth/token.
func HandleToken(svc iamHandlerService, v validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeBody(w, r, v, validation.SchemaLogin, &req); err != nil {
			writeError(w, r, err)
			return
		}

		pair, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAuthError(w, r, err)
			return
		}
		writeData(w, r, http.StatusOK, newTokenResponse(pair))
	}
}

// HandleRefresh handles POST /api/v1/auth/refresh.
func HandleRefresh(svc iamHandlerService, v validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := decodeBody(w, r, v, validation.SchemaRefresh, &req); err != nil {
			writeError(w, r, err)
			return
		}

		pair, err := svc.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			writeAuthError(w, r, err)
			return
		}
		writeData(w, r, http.StatusOK, newTokenResponse(pair))
	}
}
