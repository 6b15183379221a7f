// Package service holds the business logic between the HTTP handlers and the
// repositories.
package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"quill/internal/models"
	"quill/internal/notifications"
	"quill/internal/repository"
	"quill/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "quill-api"
	tokenAudience = "quill-client"
	sessionTTL    = 7 * 24 * time.Hour
)

// AuthService implements registration, sessions and the password lifecycle.
// A session is an HS256 JWT whose jti must still have a row in auth_tokens;
// deleting the row revokes the token, and a user holds at most one row.
type AuthService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.TokenRepository
	dispatcher *notifications.Dispatcher
	jwtSecret  string
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	dispatcher *notifications.Dispatcher,
	jwtSecret string,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		dispatcher: dispatcher,
		jwtSecret:  jwtSecret,
	}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	fields := map[string]string{}
	if err := validation.ValidateName(in.Name); err != nil {
		fields["name"] = err.Error()
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		fields["email"] = err.Error()
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		fields["password"] = err.Error()
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Type:     models.TypeUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, notifications.EventUserRegistered, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, nil
}

// Login verifies credentials and rotates the session. The failure message is
// the same for unknown email and wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, models.NewAuthenticationError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, models.NewAuthenticationError("Invalid credentials")
	}

	jti := generateJTI()
	expiresAt := time.Now().Add(sessionTTL)
	if err := s.tokenRepo.ReplaceAuthToken(ctx, user.ID, jti, expiresAt); err != nil {
		return "", nil, err
	}

	token, err := s.signToken(user.ID, jti, expiresAt)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, user, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	return s.tokenRepo.RevokeAuthTokens(ctx, userID)
}

// Authenticate resolves a bearer token to its user. The JWT signature alone is
// not enough; the jti row must still exist and be unexpired.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil || !parsed.Valid {
		return nil, models.NewAuthenticationError("Invalid or expired token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewAuthenticationError("Invalid or expired token")
	}
	sub, _ := claims["sub"].(string)
	jti, _ := claims["jti"].(string)
	userID, convErr := strconv.ParseUint(sub, 10, 32)
	if convErr != nil || jti == "" {
		return nil, models.NewAuthenticationError("Invalid or expired token")
	}

	session, err := s.tokenRepo.GetAuthToken(ctx, jti)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != uint(userID) || session.Expired(time.Now()) {
		return nil, models.NewAuthenticationError("Invalid or expired token")
	}

	return s.userRepo.GetByID(ctx, uint(userID))
}

// RequestPasswordReset reports unknown emails to the caller. Unlike login,
// this endpoint distinguishes account existence; clients depend on it.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.NewUnprocessableError("We can't find a user with that email address.")
	}

	token := uuid.NewString()
	if err := s.tokenRepo.StorePasswordReset(ctx, email, models.HashResetToken(token)); err != nil {
		return "", err
	}

	s.dispatcher.Dispatch(ctx, notifications.EventPasswordResetLink, map[string]any{
		"email": email,
		"token": token,
	})
	return fmt.Sprintf("Reset password emailed to %s", email), nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) (string, error) {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return "", models.NewFieldValidationError(map[string]string{"password": err.Error()})
	}

	ok, err := s.tokenRepo.ConsumePasswordReset(ctx, email, models.HashResetToken(token))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", models.NewInvalidTokenError("This password reset token is invalid.")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.NewInvalidTokenError("This password reset token is invalid.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	user.Password = string(hash)
	user.RememberToken = uuid.NewString()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}
	// All sessions die with the old password.
	if err := s.tokenRepo.RevokeAuthTokens(ctx, user.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Password for %s updated", email), nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return models.NewAuthenticationError("Password was incorrect")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewFieldValidationError(map[string]string{"password": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hash)
	user.RememberToken = uuid.NewString()
	return s.userRepo.Update(ctx, user)
}

// Promote flips the target to admin. The acting admin re-enters their own
// password.
func (s *AuthService) Promote(ctx context.Context, actor *models.User, targetID uint, actorPassword string) (*models.User, error) {
	return s.setRole(ctx, actor, targetID, actorPassword, models.TypeAdmin)
}

// Demote flips the target back to a regular user.
func (s *AuthService) Demote(ctx context.Context, actor *models.User, targetID uint, actorPassword string) (*models.User, error) {
	return s.setRole(ctx, actor, targetID, actorPassword, models.TypeUser)
}

func (s *AuthService) setRole(ctx context.Context, actor *models.User, targetID uint, actorPassword, role string) (*models.User, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(actor.Password), []byte(actorPassword)); err != nil {
		return nil, models.NewAuthenticationError("Password is incorrect")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Type == role {
		return nil, models.NewUnprocessableError(
			fmt.Sprintf("User with email %s already has %s type", target.Email, role))
	}

	target.Type = role
	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *AuthService) signToken(userID uint, jti string, expiresAt time.Time) (string, error) {
	if s.jwtSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": jti,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.NewString()[:8])
}
