package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/services/validation"
)

// HandleListRoles handles GET /api/v1/roles?pageNo=&pageSize=.
func HandleListRoles(svc iamHandlerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageRequest(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		roles, err := svc.ListRoles(r.Context(), page)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, r, http.StatusOK, newPageDTO(roles, func(role *models.Role) roleDTO {
			return newRoleDTO(*role)
		}))
	}
}

// HandleCreateRole handles POST /api/v1/roles.
func HandleCreateRole(svc iamHandlerService, v validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roleRequest
		if err := decodeBody(w, r, v, validation.SchemaRole, &req); err != nil {
			writeError(w, r, err)
			return
		}

		role, err := svc.CreateRole(r.Context(), req.Name, req.Description)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, r, http.StatusCreated, newRoleDTO(*role))
	}
}

// HandleUpdateRole handles PUT /api/v1/roles. The role is selected by name.
func HandleUpdateRole(svc iamHandlerService, v validation.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roleRequest
		if err := decodeBody(w, r, v, validation.SchemaRole, &req); err != nil {
			writeError(w, r, err)
			return
		}

		role, err := svc.UpdateRole(r.Context(), req.Name, req.Description)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, r, http.StatusOK, newRoleDTO(*role))
	}
}

// HandleDeleteRole handles DELETE /api/v1/roles/{tipoRol}.
func HandleDeleteRole(svc iamHandlerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteRole(r.Context(), chi.URLParam(r, "tipoRol")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
