// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package portal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sjdportal/darbar/internal/backend"
	"github.com/sjdportal/darbar/internal/platform/constants"
	requestutil "github.com/sjdportal/darbar/internal/platform/request"
	"github.com/sjdportal/darbar/internal/platform/respond"
	"github.com/sjdportal/darbar/internal/platform/validate"
	"github.com/sjdportal/darbar/internal/routing"
)

// RegisterAuthRoutes mounts the authentication entry points at the top of
// the route surface, matching the original portal's page paths. The login
// throttle is applied to the credential endpoint only, so a brute-force
// loop is blunted without slowing the rest of the surface.
//
// # Endpoints
//   - GET  /login                  : Login page descriptor (guard redirect target).
//   - POST /login                  : Authenticates and establishes the session.
//   - POST /logout                 : Clears the session. Idempotent.
//   - GET  /register               : Registration page descriptor.
//   - POST /register               : Creates a citizen account.
//   - POST /forgot-password        : Initiates password recovery.
//   - POST /reset-password/{token} : Completes password recovery.
func (handler *Handler) RegisterAuthRoutes(router chi.Router, loginThrottle func(http.Handler) http.Handler) {
	router.Get("/login", handler.loginPage)
	router.With(loginThrottle).Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/register", handler.registerPage)
	router.Post("/register", handler.register)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password/{token}", handler.resetPassword)
}

// loginPage serves the login form descriptor. It exists mainly as the
// guard's redirect target; an already-authenticated visitor is pointed at
// their role home instead.
func (handler *Handler) loginPage(writer http.ResponseWriter, request *http.Request) {
	if user := handler.session.User(); user != nil {
		role, _ := routing.Parse(user.Role)
		respond.Redirect(writer, request, routing.HomeFor(role))
		return
	}

	respond.OK(writer, map[string]any{
		"page":   "login",
		"submit": constants.PathLogin,
		"fields": []string{FieldEmail, FieldPassword},
	})
}

// registerPage serves the registration form descriptor.
func (handler *Handler) registerPage(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]any{
		"page":   "register",
		"submit": "/register",
		"fields": []string{
			FieldFirstName, FieldLastName, FieldEmail,
			FieldPhone, FieldPassword, FieldAddress, FieldDistrict,
		},
	})
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Address   string `json:"address"`
	District  string `json:"district"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

/*
Login authenticates against the backend and establishes the gateway session.

POST /login

Description: Forwards credentials upstream, waits for the profile to be
confirmed, then mints the browser-binding cookie pinned to the new session
generation. The response carries the role home so the client can route
straight to its dashboard.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Profile and role-home redirect target
  - 401: ErrUnauthorized: Invalid credentials (message passed through verbatim)
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.session.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	binding, err := handler.cookies.Mint(
		profile.Email,
		profile.Role,
		handler.session.Generation(),
		constants.SessionCookieTTL,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    binding,
		Path:     "/",
		MaxAge:   int(constants.SessionCookieTTL.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	role, _ := routing.Parse(profile.Role)
	respond.OK(writer, map[string]any{
		"user":     profile,
		"redirect": routing.HomeFor(role),
	})
}

/*
Logout clears the gateway session and the browser binding.

POST /logout

Description: Idempotent. Clears the session (memory, durable storage,
bearer header), expires the binding cookie, and points the client at the
login page.

Response:
  - 200: Redirect target (always the login path)
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.session.Logout(request.Context())

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, map[string]any{
		"redirect": constants.PathLogin,
	})
}

/*
Register creates a new citizen account upstream.

POST /register

Description: Validates the registration payload and forwards it to the
backend. Session state is untouched; the citizen signs in afterwards.

Request:
  - Body: registerRequest (FirstName, LastName, Email, Phone, Password, ...)

Response:
  - 201: Confirmation message
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email or phone already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPhone, input.Phone).
		Phone(FieldPhone, input.Phone).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.session.Register(request.Context(), backend.RegisterInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Password:  input.Password,
		Address:   input.Address,
		District:  input.District,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]string{
		constants.FieldMessage: "Registration successful. Please sign in.",
	})
}

/*
ForgotPassword initiates the password recovery flow.

POST /forgot-password

Description: Forwards the email upstream. The response message is generic
regardless of whether the account exists.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Generic confirmation message
  - 400: ErrInvalidJSON: Invalid email format
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.client.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		constants.FieldMessage: "If this email is registered, a reset link has been sent.",
	})
}

/*
ResetPassword completes the password recovery flow.

POST /reset-password/{token}

Description: Forwards the emailed reset token and the new password upstream.

Request:
  - Path: token (from the reset link)
  - Body: resetPasswordRequest (Password)

Response:
  - 200: Confirmation message
  - 400: ErrInvalidJSON: Missing token or weak password
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, "token")

	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldToken, token).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.client.ResetPassword(request.Context(), token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		constants.FieldMessage: "Password updated successfully",
	})
}
