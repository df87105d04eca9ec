package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/auth"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/iam"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/validation"
)

// pageRequest reads pageNo and pageSize, defaulting to the first page of
// iam.DefaultPageSize items.
func pageRequest(r *http.Request) (iam.PageRequest, error) {
	page := iam.PageRequest{Number: 0, Size: iam.DefaultPageSize}
	q := r.URL.Query()

	var violations []string
	if raw := q.Get("pageNo"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			violations = append(violations, "pageNo must be an integer")
		}
		page.Number = n
	}
	if raw := q.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			violations = append(violations, "pageSize must be an integer")
		}
		page.Size = n
	}
	if len(violations) > 0 {
		return page, &validation.Error{Schema: "query", Violations: violations}
	}
	return page, page.Validate()
}

// HandleListUsers handles GET /api/v1/usuarios?pageNo=&pageSize=.
func HandleListUsers(svc iamHandlerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageRequest(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		users, err := svc.ListUsers(r.Context(), page)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, r, http.StatusOK, newPageDTO(users, func(u *models.User) userDTO {
			return newUserDTO(u)
		}))
	}
}

// HandleMe handles GET /api/v1/usuarios/me from the token alone.
func HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.GetUserFromContext(r.Context())
		if !ok {
			writeError(w, r, iam.ErrUnauthenticated)
			return
		}
		writeData(w, r, http.StatusOK, principalDTO{
			Subject:     principal.Subject,
			Authorities: principal.Authorities,
			ExpiresAt:   principal.ExpiresAt.UTC(),
		})
	}
}

// HandleGetUserByDocument handles GET /api/v1/usuarios/{tipoDocumento}/{documento}.
func HandleGetUserByDocument(svc iamHandlerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.GetUserByDocument(r.Context(), chi.URLParam(r, "tipoDocumento"), chi.URLParam(r, "documento"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, r, http.StatusOK, newUserDTO(user))
	}
}

// HandleUpdateUser handles PUT /api/v1/usuarios. The user is selected by email.
func HandleUpdateUser(svc iamHandlerService, v validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userRequest
		if err := decodeBody(w, r, v, validation.SchemaUserUpdate, &req); err != nil {
			writeError(w, r, err)
			return
		}

		user, err := svc.UpdateUser(r.Context(), req.updateInput())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, r, http.StatusOK, newUserDTO(user))
	}
}

// HandleDeleteUser handles DELETE /api/v1/usuarios/{tipoDocumento}/{documento}.
func HandleDeleteUser(svc iamHandlerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.DeleteUserByDocument(r.Context(), chi.URLParam(r, "tipoDocumento"), chi.URLParam(r, "documento"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
