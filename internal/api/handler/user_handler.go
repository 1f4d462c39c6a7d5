package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realworld/conduit-api/internal/api/metrics"
	"github.com/realworld/conduit-api/internal/core/domain"
	"github.com/realworld/conduit-api/internal/core/ports"
)

type UserHandler struct {
	users  ports.UserService
	tokens ports.TokenIssuer
}

func NewUserHandler(users ports.UserService, tokens ports.TokenIssuer) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

// Register creates a new account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.users.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.User.Username,
		Email:    req.User.Email,
		Password: req.User.Password,
	})
	recordCredentialOp("register", err)
	if err != nil {
		return err
	}

	return h.respondWithUser(c, http.StatusCreated, user)
}

// Login authenticates by email and password and returns a bearer token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.users.Login(c.Request().Context(), req.User.Email, req.User.Password)
	recordCredentialOp("login", err)
	if err != nil {
		return err
	}

	return h.respondWithUser(c, http.StatusOK, user)
}

// Current returns the authenticated user with a fresh token.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/user [get]
func (h *UserHandler) Current(c echo.Context, user *domain.User) error {
	return h.respondWithUser(c, http.StatusOK, user)
}

// Update applies a partial update to the authenticated user.
//
// @Summary      Update current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /users/user [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.users.Update(c.Request().Context(), currentUserID(c), ports.UpdateUserInput{
		Username: req.User.Username,
		Email:    req.User.Email,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
		Password: req.User.Password,
	})
	recordCredentialOp("update", err)
	if err != nil {
		return err
	}

	return h.respondWithUser(c, http.StatusOK, user)
}

func (h *UserHandler) respondWithUser(c echo.Context, status int, user *domain.User) error {
	token, err := h.tokens.Sign(domain.ClaimsFor(user))
	if err != nil {
		return err
	}
	return c.JSON(status, newUserResponse(user, token))
}

func recordCredentialOp(operation string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserExists):
		result = "conflict"
	case errors.Is(err, domain.ErrInvalidCredentials):
		result = "invalid_credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		result = "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		result = "invalid_input"
	default:
		result = "error"
	}
	metrics.CredentialOperationsTotal.WithLabelValues(operation, result).Inc()
}
