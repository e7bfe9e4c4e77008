package user

import (
	"context"
	"errors"
	"fmt"
	"myShopHub/domain"
	"myShopHub/pkg/logger"
	"myShopHub/pkg/utils"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Emails(ctx context.Context) ([]string, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uint) error
}

// TokenStore remembers issued tokens so they can be revoked on logout or
// when the account goes away.
type TokenStore interface {
	StoreToken(ctx context.Context, session domain.Session, ttl time.Duration) error
	RevokeToken(ctx context.Context, userID uint, token string) error
	RevokeUserTokens(ctx context.Context, userID uint) error
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (domain.GoogleIdentity, error)
}

// FileRemover deletes uploaded files that are no longer referenced.
type FileRemover interface {
	Remove(publicPath string) error
}

type userService struct {
	userRepo   UserRepository
	validate   *validator.Validate
	tokenStore TokenStore
	google     GoogleVerifier
	files      FileRemover
}

// NewUserService builds the identity service. tokenStore and files may be
// nil.
func NewUserService(
	userRepo UserRepository,
	validate *validator.Validate,
	tokenStore TokenStore,
	google GoogleVerifier,
	files FileRemover,
) *userService {
	return &userService{
		userRepo:   userRepo,
		validate:   validate,
		tokenStore: tokenStore,
		google:     google,
		files:      files,
	}
}

type RegisterInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Avatar   string
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (string, domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := s.validate.Struct(input); err != nil {
		logger.Error("Invalid register input", err)
		return "", domain.User{}, fmt.Errorf("name, email and password are required: %w", domain.ErrValidation)
	}

	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return "", domain.User{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		logger.Error("Failed to check email", err)
		return "", domain.User{}, err
	}

	passwordHash, err := utils.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return "", domain.User{}, errors.New("failed to hash password")
	}
	hash := string(passwordHash)

	newUser := domain.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: &hash,
		Role:     domain.RoleUser,
		Provider: domain.ProviderLocal,
	}
	if input.Avatar != "" {
		newUser.Avatar = &input.Avatar
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user", err)
		return "", domain.User{}, err
	}

	token, err := s.issueToken(ctx, newUser)
	if err != nil {
		return "", domain.User{}, err
	}

	return token, newUser, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	if email == "" || password == "" {
		return "", domain.User{}, fmt.Errorf("email and password are required: %w", domain.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.User{}, domain.ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err)
		return "", domain.User{}, err
	}

	if user.Password == nil {
		return "", domain.User{}, domain.ErrFederatedAccount
	}

	if !utils.CheckPassword(password, *user.Password) {
		logger.Warn("User password incorrect", "user_id", user.ID)
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return "", domain.User{}, err
	}

	return token, user, nil
}

// GoogleLogin signs in with a Google ID token, creating the account on
// first use.
func (s *userService) GoogleLogin(ctx context.Context, idToken string) (string, domain.User, error) {
	if idToken == "" {
		return "", domain.User{}, fmt.Errorf("google credential is required: %w", domain.ErrValidation)
	}

	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		logger.Warn("Google token rejected", err)
		return "", domain.User{}, fmt.Errorf("%v: %w", err, domain.ErrUnauthorized)
	}

	email := strings.ToLower(identity.Email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		user = domain.User{
			Name:     identity.Name,
			Email:    email,
			Role:     domain.RoleUser,
			Provider: domain.ProviderGoogle,
			GoogleID: &identity.Subject,
		}
		if user.Name == "" {
			user.Name = email
		}
		if identity.Picture != "" {
			user.Avatar = &identity.Picture
		}
		if err := s.userRepo.Create(ctx, &user); err != nil {
			logger.Error("Failed to create google user", err)
			return "", domain.User{}, err
		}
	case err != nil:
		logger.Error("Failed to find user", err)
		return "", domain.User{}, err
	default:
		changed := false
		if user.Avatar == nil && identity.Picture != "" {
			user.Avatar = &identity.Picture
			changed = true
		}
		if user.GoogleID == nil {
			user.GoogleID = &identity.Subject
			changed = true
		}
		if changed {
			if err := s.userRepo.Update(ctx, &user); err != nil {
				logger.Error("Failed to link google account", err)
				return "", domain.User{}, err
			}
		}
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return "", domain.User{}, err
	}

	return token, user, nil
}

func (s *userService) Logout(ctx context.Context, userID uint, token string) error {
	if s.tokenStore == nil {
		return nil
	}

	if err := s.tokenStore.RevokeToken(ctx, userID, token); err != nil {
		logger.Error("Failed to revoke token", err)
		return err
	}

	return nil
}

func (s *userService) issueToken(ctx context.Context, user domain.User) (string, error) {
	token, err := utils.GenerateJWT(strconv.FormatUint(uint64(user.ID), 10), user.Name, user.Email, user.Role)
	if err != nil {
		logger.Error("Failed to generated token", err)
		return "", errors.New("failed to generate token")
	}

	if s.tokenStore != nil {
		now := time.Now()
		session := domain.Session{
			UserID:    user.ID,
			Role:      user.Role,
			Token:     token,
			IssuedAt:  now,
			ExpiresAt: now.Add(utils.TokenTTL()),
		}
		if err := s.tokenStore.StoreToken(ctx, session, utils.TokenTTL()); err != nil {
			logger.Error("Failed to store token", err)
			return "", err
		}
	}

	return token, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	return user, nil
}

type ProfileUpdate struct {
	Name   string
	Email  string
	Avatar string
}

// UpdateProfile applies the non-empty fields. A replaced local avatar file
// is removed after the row is saved.
func (s *userService) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (domain.User, error) {
	existingUser, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("User not found for update", err)
		return domain.User{}, err
	}

	if name := strings.TrimSpace(update.Name); name != "" {
		existingUser.Name = name
	}

	if email := strings.ToLower(strings.TrimSpace(update.Email)); email != "" && email != existingUser.Email {
		if err := s.validate.Var(email, "email"); err != nil {
			return domain.User{}, fmt.Errorf("invalid email format: %w", domain.ErrValidation)
		}

		userWithEmail, err := s.userRepo.FindByEmail(ctx, email)
		if err == nil && userWithEmail.ID != id {
			return domain.User{}, domain.ErrEmailTaken
		}
		existingUser.Email = email
	}

	var oldAvatar string
	if update.Avatar != "" {
		if existingUser.Avatar != nil {
			oldAvatar = *existingUser.Avatar
		}
		existingUser.Avatar = &update.Avatar
	}

	if err := s.userRepo.Update(ctx, &existingUser); err != nil {
		logger.Error("Failed to update user", err)
		return domain.User{}, err
	}

	if oldAvatar != "" && s.files != nil {
		if err := s.files.Remove(oldAvatar); err != nil {
			logger.Warn("Failed to remove old avatar", err)
		}
	}

	return existingUser, nil
}

// DeleteAccount removes the user row only. Orders and reviews keep the
// dangling user id.
func (s *userService) DeleteAccount(ctx context.Context, id uint) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete account", err)
		return err
	}

	return s.revokeAll(ctx, id)
}

func (s *userService) RegisteredEmails(ctx context.Context) ([]string, error) {
	emails, err := s.userRepo.Emails(ctx)
	if err != nil {
		logger.Error("Failed to list emails", err)
		return nil, err
	}

	return emails, nil
}

// GetAllUsers retrieves all users
func (s *userService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return nil, err
	}

	return users, nil
}

// UpdateUser lets an admin rename a user or change its role.
func (s *userService) UpdateUser(ctx context.Context, id uint, name, role string) (domain.User, error) {
	if role != "" && !domain.ValidRole(role) {
		return domain.User{}, domain.ErrInvalidRole
	}

	existingUser, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("User not found for update", err)
		return domain.User{}, err
	}

	if name = strings.TrimSpace(name); name != "" {
		existingUser.Name = name
	}

	if role != "" {
		existingUser.Role = role
	}

	if err := s.userRepo.Update(ctx, &existingUser); err != nil {
		logger.Error("Failed to update user", err)
		return domain.User{}, err
	}

	return existingUser, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete user", err)
		return err
	}

	return s.revokeAll(ctx, id)
}

// revokeAll ends every live session of a deleted user.
func (s *userService) revokeAll(ctx context.Context, id uint) error {
	if s.tokenStore == nil {
		return nil
	}

	if err := s.tokenStore.RevokeUserTokens(ctx, id); err != nil {
		logger.Error("Failed to revoke tokens of deleted user", err, "user_id", id)
		return err
	}

	return nil
}
