package api

import (
	"errors"
	"net/http"

	"github.com/hackgods/medai-console/internal/auth"
	"github.com/hackgods/medai-console/internal/validate"
)

func registerHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if !bind(w, r, &req) {
			return
		}

		if _, err := svc.Register(r.Context(), req.toInput()); err != nil {
			handleAuthError(w, r, err)
			return
		}

		writeMessage(w, http.StatusCreated, "User registered successfully")
	}
}

func loginHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !bind(w, r, &req) {
			return
		}

		token, account, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: account.Public()})
	}
}

func meHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		account, err := svc.Identify(r.Context(), claims.User.ID)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, UserResponse{User: account.Public()})
	}
}

func updateProfileHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		var req ProfileRequest
		if !bind(w, r, &req) {
			return
		}

		account, err := svc.UpdateProfile(r.Context(), claims.User.ID, req.toPatch())
		if err != nil {
			handleAuthError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, UserResponse{User: account.Public()})
	}
}

func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, auth.ErrPasswordTooLong):
		// multi-byte passwords can pass the character count and still be too long
		writeValidationError(w, &validate.Error{Fields: []validate.FieldError{
			{Msg: msgPasswordTooLong, Param: "password", Location: "body"},
		}})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, auth.ErrAccountNotFound):
		// token was valid but its account is gone
		writeError(w, http.StatusUnauthorized, msgInvalidToken)
	default:
		writeServerError(w, r, err, msgServerError)
	}
}
