package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"newsroomCMS/internal/config"
	"newsroomCMS/internal/errs"
	"newsroomCMS/internal/models"
	"newsroomCMS/internal/repository"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=Author Reader"`
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) error
	VerifyOTP(ctx context.Context, email, code string) (*models.User, string, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	otp      OTPStore
	mailer   Mailer
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config, otp OTPStore, mailer Mailer) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
		otp:      otp,
		mailer:   mailer,
	}
}

// Register не создаёт пользователя сразу: заявка с кодом подтверждения
// кладётся в кеш с TTL, код уходит через Mailer. Пользователь появится
// в БД после VerifyOTP.
func (s *authService) Register(ctx context.Context, req RegisterRequest) error {
	existingUser, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err == nil && existingUser != nil {
		return fmt.Errorf("пользователь с email %s уже существует: %w", req.Email, errs.ErrDuplicate)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка при хешировании пароля: %w", err)
	}

	code, err := generateOTPCode()
	if err != nil {
		return fmt.Errorf("ошибка генерации кода подтверждения: %w", err)
	}

	pending := PendingRegistration{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         req.Role,
		Code:         code,
	}

	if err := s.otp.Save(ctx, req.Email, pending, s.cfg.OTPLifetime); err != nil {
		return fmt.Errorf("ошибка сохранения заявки на регистрацию: %w", err)
	}

	if err := s.mailer.SendOTP(ctx, req.Email, code); err != nil {
		return fmt.Errorf("ошибка отправки кода подтверждения: %w", err)
	}

	return nil
}

// VerifyOTP сверяет код, создаёт пользователя и сразу выдаёт пару токенов
func (s *authService) VerifyOTP(ctx context.Context, email, code string) (*models.User, string, string, error) {
	pending, err := s.otp.Get(ctx, email)
	if err != nil {
		return nil, "", "", fmt.Errorf("код подтверждения не запрошен или истёк: %w", errs.ErrValidation)
	}

	if strings.TrimSpace(code) != pending.Code {
		return nil, "", "", fmt.Errorf("неверный код подтверждения: %w", errs.ErrValidation)
	}

	refreshToken, refreshTokenExpiry := s.generateRefreshToken()

	user := &models.User{
		Username:               pending.Username,
		Email:                  pending.Email,
		PasswordHash:           pending.PasswordHash,
		Role:                   pending.Role,
		RefreshToken:           refreshToken,
		RefreshTokenExpiryTime: refreshTokenExpiry,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, "", "", err
	}

	// запись одноразовая: после успеха код больше не действует
	_ = s.otp.Delete(ctx, email)

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, "", "", fmt.Errorf("ошибка аутентификации: %w", err)
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", "", err
	}

	refreshToken, refreshTokenExpiry := s.generateRefreshToken()

	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, refreshToken, refreshTokenExpiry); err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", "", err
	}

	newRefreshToken, refreshTokenExpiry := s.generateRefreshToken()

	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, newRefreshToken, refreshTokenExpiry); err != nil {
		return nil, "", "", err
	}

	return user, accessToken, newRefreshToken, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"userId": user.UserID,
		"email":  user.Email,
		"role":   user.Role,
		"exp":    time.Now().Add(s.cfg.AccessTokenDuration).Unix(),
		"iat":    time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return tokenString, nil
}

func (s *authService) generateRefreshToken() (string, time.Time) {
	return uuid.New().String(), time.Now().Add(s.cfg.RefreshTokenDuration)
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга токена: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("недействительный токен")
	}

	return token, nil
}

// generateOTPCode возвращает шестизначный код на криптостойком генераторе
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
