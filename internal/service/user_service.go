package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
	"storefront-service/internal/store"
)

type JwtCustomClaims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

type UserService struct {
	userRepo  *repository.UserRepository
	rdb       *redis.Client
	jwtSecret []byte
}

// NewUserService creates a new instance of UserService. rdb may be nil; token
// storage is skipped in that case and ValidateToken is unavailable.
func NewUserService(userRepo *repository.UserRepository, rdb *redis.Client, jwtSecret []byte) *UserService {
	return &UserService{
		userRepo:  userRepo,
		rdb:       rdb,
		jwtSecret: jwtSecret,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*entity.AuthUser, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting user by ID %s", id)
		return nil, err
	}

	auth := user.Auth()
	return &auth, nil
}

// Register creates a non-admin user. Emails are unique across users.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*entity.AuthUser, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("name, email and password are required")
	}
	if !ValidEmail(email) {
		return nil, fmt.Errorf("invalid email address")
	}

	if _, err := s.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:       fmt.Sprintf("user-%s", uuid.NewString()),
		Name:     name,
		Email:    email,
		Password: string(hash),
		IsAdmin:  false,
	}

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	auth := created.Auth()
	return &auth, nil
}

// Login checks credentials and issues a signed JWT, stored in Redis for 24h
// keyed by email.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *entity.AuthUser, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	claims := &JwtCustomClaims{
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := tkn.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, sessionKey(email), t, time.Hour*24).Err(); err != nil {
			return "", nil, err
		}
	}

	auth := user.Auth()
	return t, &auth, nil
}

// ValidateToken checks that the presented token matches the stored session.
func (s *UserService) ValidateToken(ctx context.Context, email string) (string, error) {
	if s.rdb == nil {
		return "", fmt.Errorf("session store unavailable")
	}

	token, err := s.rdb.Get(ctx, sessionKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("session not found")
		}
		return "", err
	}

	return token, nil
}

func (s *UserService) Logout(ctx context.Context, email string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(email)).Err()
}

// SeedAdmin creates the default admin account when the user collection is
// empty, as the storefront did on first visit.
func (s *UserService) SeedAdmin(ctx context.Context, email, password string) error {
	users, err := s.userRepo.GetUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &entity.User{
		ID:       "admin-1",
		Name:     "Admin",
		Email:    email,
		Password: string(hash),
		IsAdmin:  true,
	}

	_, err = s.userRepo.CreateUser(ctx, admin)
	return err
}

func sessionKey(email string) string {
	return fmt.Sprintf("session:%s", email)
}

// ValidEmail is the storefront's syntactic check: something before the @,
// and a domain segment with a dot.
func ValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1 && !strings.Contains(domain, "@")
}
