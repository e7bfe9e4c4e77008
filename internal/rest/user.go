package rest

import (
	"context"
	"myShopHub/business/user"
	"myShopHub/domain"
	"myShopHub/internal/middleware"
	"myShopHub/pkg/logger"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, input user.RegisterInput) (string, domain.User, error)
	Login(ctx context.Context, email, password string) (string, domain.User, error)
	GoogleLogin(ctx context.Context, idToken string) (string, domain.User, error)
	Logout(ctx context.Context, userID uint, token string) error
	GetUserByID(ctx context.Context, id uint) (domain.User, error)
	UpdateProfile(ctx context.Context, id uint, update user.ProfileUpdate) (domain.User, error)
	DeleteAccount(ctx context.Context, id uint) error
	RegisteredEmails(ctx context.Context) ([]string, error)
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id uint, name, role string) (domain.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type UserHandler struct {
	userService UserService
	files       FileStore
	validator   *validator.Validate
	timeout     time.Duration
}

func NewUserHandler(userService UserService, files FileStore) *UserHandler {
	return &UserHandler{
		userService: userService,
		files:       files,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type UserRegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Avatar   string `json:"avatar" form:"avatar"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type ProfileUpdateRequest struct {
	Name   string `json:"name" form:"name"`
	Email  string `json:"email" form:"email" validate:"omitempty,email"`
	Avatar string `json:"avatar" form:"avatar"`
}

type UserUpdateRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var reqUser UserRegisterRequest

	if err := c.Bind(&reqUser); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, err.Error())
	}

	if err := h.validator.Struct(&reqUser); err != nil {
		logger.Error("Failed to validation user register", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	avatar, err := saveUpload(ctx, c, h.files, "avatar")
	if err != nil {
		logger.Error("Failed to store avatar", err)
		return badRequest(c, "invalid avatar upload")
	}
	if avatar == "" {
		avatar = reqUser.Avatar
	}

	token, newUser, err := h.userService.Register(ctx, user.RegisterInput{
		Name:     reqUser.Name,
		Email:    reqUser.Email,
		Password: reqUser.Password,
		Avatar:   avatar,
	})
	if err != nil {
		logger.Error("Failed to register user", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(AuthResponse{Token: token, User: newUser}))
}

func (h *UserHandler) Login(c echo.Context) error {
	var reqUser UserLoginRequest

	if err := c.Bind(&reqUser); err != nil {
		logger.Error("Failed to bind request", err)
		return badRequest(c, err.Error())
	}

	if err := h.validator.Struct(&reqUser); err != nil {
		logger.Error("Failed to validate user login", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, loggedIn, err := h.userService.Login(ctx, reqUser.Email, reqUser.Password)
	if err != nil {
		logger.Error("Failed to login", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(AuthResponse{Token: token, User: loggedIn}))
}

func (h *UserHandler) GoogleLogin(c echo.Context) error {
	var req GoogleLoginRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return badRequest(c, err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "google credential is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, loggedIn, err := h.userService.GoogleLogin(ctx, req.Credential)
	if err != nil {
		logger.Error("Failed to login with google", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(AuthResponse{Token: token, User: loggedIn}))
}

func (h *UserHandler) Logout(c echo.Context) error {
	userID, _ := middleware.UserID(c)
	token, _ := c.Get(middleware.ContextToken).(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.userService.Logout(ctx, userID, token); err != nil {
		logger.Error("Failed to logout", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Logged out successfully"))
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("Failed to get profile", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	var req ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	avatar, err := saveUpload(ctx, c, h.files, "avatar")
	if err != nil {
		logger.Error("Failed to store avatar", err)
		return badRequest(c, "invalid avatar upload")
	}
	if avatar == "" {
		avatar = req.Avatar
	}

	updated, err := h.userService.UpdateProfile(ctx, userID, user.ProfileUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Avatar: avatar,
	})
	if err != nil {
		logger.Error("Failed to update profile", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *UserHandler) DeleteAccount(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.userService.DeleteAccount(ctx, userID); err != nil {
		logger.Error("Failed to delete account", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Account deleted successfully"))
}

func (h *UserHandler) RegisteredEmails(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	emails, err := h.userService.RegisteredEmails(ctx)
	if err != nil {
		logger.Error("Failed to get registered emails", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(emails))
}

func (h *UserHandler) GetAllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	users, err := h.userService.GetAllUsers(ctx)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(users))
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req UserUpdateRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.userService.UpdateUser(ctx, id, req.Name, req.Role)
	if err != nil {
		logger.Error("Failed to update user", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.userService.DeleteUser(ctx, id); err != nil {
		logger.Error("Failed to delete user", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("User deleted successfully"))
}
