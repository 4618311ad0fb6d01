package service

import (
	"context"
	"errors"
	"time"

	"github.com/ali-khaled-949/myChatApp/internal/config"
	"github.com/ali-khaled-949/myChatApp/internal/domain"
	"github.com/ali-khaled-949/myChatApp/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	cfg         *config.Config
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
	}
}

type RegisterInput struct {
	Username string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	User    *domain.User
	Session *domain.Session
	Token   string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	// Check if username exists
	existing, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err == nil && existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// Delete old sessions; a user has at most one live session
	_ = s.sessionRepo.DeleteByUserID(ctx, user.ID)

	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.SessionExpirationHours) * time.Hour),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	token, err := s.signSessionToken(session)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:    user,
		Session: session,
		Token:   token,
	}, nil
}

// CurrentIdentity resolves a session cookie token to the user it belongs to.
// It has no side effects: signature check, session lookup, expiry check.
// Every failure mode reads the same to callers.
func (s *AuthService) CurrentIdentity(ctx context.Context, token string) (uuid.UUID, error) {
	sessionID, err := s.parseSessionToken(token)
	if err != nil {
		return uuid.Nil, domain.ErrSessionInvalid
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, domain.ErrSessionInvalid
		}
		return uuid.Nil, err
	}

	if session.Expired(time.Now()) {
		return uuid.Nil, domain.ErrSessionInvalid
	}

	return session.UserID, nil
}

// Logout destroys the session referenced by the token. Logging out with a
// garbage token or an already-destroyed session is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	sessionID, err := s.parseSessionToken(token)
	if err != nil {
		return nil
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) signSessionToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid": session.ID.String(),
		"sub": session.UserID.String(),
		"exp": session.ExpiresAt.Unix(),
		"iat": session.CreatedAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SessionSecret))
}

func (s *AuthService) parseSessionToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.SessionSecret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, errors.New("invalid token")
	}

	sidStr, ok := claims["sid"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing 'sid' claim")
	}

	return uuid.Parse(sidStr)
}
