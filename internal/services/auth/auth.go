// Package auth содержит бизнес-логику регистрации, входа и сессий.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/matrimony-portal/portal-api/internal/lib/jwt"
	"github.com/matrimony-portal/portal-api/internal/lib/password"
	"github.com/matrimony-portal/portal-api/internal/models"
	"github.com/matrimony-portal/portal-api/internal/session"
)

// ErrInvalidCredentials возвращается при неверном имени пользователя или пароле.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidRefresh возвращается при неизвестном или истекшем refresh-токене.
var ErrInvalidRefresh = errors.New("invalid refresh token")

// UserRepository описывает контракт для работы с пользователями в хранилище.
// Реализуется PostgreSQL-репозиторием и адаптером демо-хранилища.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Service отвечает за регистрацию, вход, обновление токенов и сессии.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	sessions *session.Store
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, jwtMaker jwt.Maker, sessions *session.Store, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		sessions: sessions,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Новые учетные записи получают роль user, тариф free и активный статус.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:              email,
		Username:           username,
		PasswordHash:       hashed,
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionActive,
		SubscriptionTier:   models.TierFree,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль, создает сессию и возвращает пару токенов.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token, refresh string, sess *models.Session, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UUID)
	if err != nil {
		return "", "", nil, err
	}
	refresh = uuid.NewString()

	newSess := models.Session{
		UserUID:            user.UUID,
		Username:           user.Username,
		Role:               user.Role,
		SubscriptionStatus: user.SubscriptionStatus,
		SubscriptionTier:   user.SubscriptionTier,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.sessions.Save(newSess); err != nil {
		return "", "", nil, err
	}
	if err := s.sessions.SaveRefresh(user.UUID, refresh); err != nil {
		return "", "", nil, err
	}
	return token, refresh, &newSess, nil
}

// Refresh проверяет refresh-токен пользователя и выдает новую пару токенов.
func (s *Service) Refresh(ctx context.Context, username, refreshToken string) (token, refresh string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", ErrInvalidRefresh
	}
	ok, err := s.sessions.CheckRefresh(user.UUID, refreshToken)
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", ErrInvalidRefresh
	}

	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UUID)
	if err != nil {
		return "", "", err
	}
	refresh = uuid.NewString()
	if err := s.sessions.SaveRefresh(user.UUID, refresh); err != nil {
		return "", "", err
	}
	return token, refresh, nil
}

// Logout удаляет сессию и refresh-токен пользователя.
func (s *Service) Logout(_ context.Context, userUID string) error {
	return s.sessions.Delete(userUID)
}

// ValidateToken проверяет JWT и возвращает claims пользователя.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}

// Session возвращает сессию пользователя, при необходимости восстанавливая
// её из хранилища пользователей (например, после истечения записи в redis).
func (s *Service) Session(ctx context.Context, userUID string) (*models.Session, error) {
	const op = "auth.Session"

	sess, found, err := s.sessions.Load(userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if found {
		return sess, nil
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rebuilt := models.Session{
		UserUID:            user.UUID,
		Username:           user.Username,
		Role:               user.Role,
		SubscriptionStatus: user.SubscriptionStatus,
		SubscriptionTier:   user.SubscriptionTier,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.sessions.Save(rebuilt); err != nil {
		s.log.Warn("failed to rehydrate session", slog.String("user_uid", userUID))
	}
	return &rebuilt, nil
}
