// Package iam provides identity and access management for the API.
//
// It covers:
//
//   - Authentication: email/password login and refresh-token renewal,
//     both issuing an access + refresh token pair
//   - Registration: one transaction that resolves (or creates) the requested
//     role and stores the new user with a bcrypt hash
//   - Request authentication: BearerAuthenticator turns an Authorization
//     header into an auth.Principal without touching the store
//   - Authorization: Evaluator decides a Policy for a principal, reading the
//     live role registry for "any known role" checks and failing closed when
//     the registry cannot be read
//   - Administration: paginated user and role management
//
// Request Flow:
//
//	Request → middleware.Authentication → BearerAuthenticator → auth.Principal (context)
//	       ↓
//	   middleware.Authorize(policy) → Evaluator.Evaluate → RoleRegistry (dynamic only)
//	       ↓
//	   Handler → Service
//
// Authorities are resolved once at token issuance. A role assigned or removed
// after login takes effect when the token is refreshed.
package iam
