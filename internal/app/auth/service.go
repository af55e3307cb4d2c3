package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"banking/internal/domain"
	"banking/internal/repository/accounts_repo"
	"banking/internal/repository/users_repo"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// Claims carried in every issued token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Me(ctx context.Context, userID int64) (*domain.User, error)
}

type authService struct {
	db          *sql.DB
	userRepo    users_repo.UserRepository
	accountRepo accounts_repo.AccountRepository
	jwtSecret   []byte
	tokenTTL    time.Duration
	logger      *zap.Logger
}

func NewAuthService(
	db *sql.DB,
	userRepo users_repo.UserRepository,
	accountRepo accounts_repo.AccountRepository,
	jwtSecret []byte,
	tokenTTL time.Duration,
	logger *zap.Logger,
) AuthService {
	return &authService{
		db:          db,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		logger:      logger,
	}
}

// Register creates the user and their two starter accounts in one transaction.
func (s *authService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("Failed to begin registration transaction", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("%w: begin registration: %v", domain.ErrStorageUnavailable, err)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	now := time.Now()
	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	userID, err := s.userRepo.CreateTx(ctx, tx, user)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			s.logger.Warn("Registration for existing username", zap.String("username", username))
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("%w: create user: %v", domain.ErrStorageUnavailable, err)
	}
	user.ID = userID

	starters := []struct {
		name    string
		prefix  string
		balance decimal.Decimal
	}{
		{"Savings", "SAV", decimal.NewFromInt(10000)},
		{"Checking", "CHK", decimal.NewFromInt(2000)},
	}
	for _, starter := range starters {
		account := &domain.Account{
			UserID:    userID,
			Name:      starter.name,
			AccountNo: fmt.Sprintf("%s-%03d", starter.prefix, userID),
			Balance:   starter.balance,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := s.accountRepo.CreateTx(ctx, tx, account); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%w: create starter account: %v", domain.ErrStorageUnavailable, err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("Failed to commit registration transaction", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("%w: commit registration: %v", domain.ErrStorageUnavailable, err)
	}

	s.logger.Info("User registered", zap.String("username", username), zap.Int64("user_id", userID))
	return user, nil
}

// Login verifies the password and returns a signed token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, s.db, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		s.logger.Error("Failed to fetch user for login", zap.String("username", username), zap.Error(err))
		return "", fmt.Errorf("%w: get user: %v", domain.ErrStorageUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Failed login attempt", zap.String("username", username))
		return "", domain.ErrInvalidCredentials
	}

	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("username", username), zap.Int64("user_id", user.ID))
	return signed, nil
}

func (s *authService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: get user: %v", domain.ErrStorageUnavailable, err)
	}
	return user, nil
}

// ParseToken validates a signed token and returns its claims.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
