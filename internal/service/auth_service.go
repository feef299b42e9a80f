package service

import (
	"errors"
	"os"
	"time"

	apperrors "spotshare/internal/errors"
	"spotshare/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(email, password string) (string, error)
	Register(name, email, phone, password string) (int, error)
}

type authService struct {
	repo repository.UserRepository
}

func NewAuthService(repo repository.UserRepository) AuthService {
	return &authService{repo: repo}
}

func (s *authService) Login(email, password string) (string, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *authService) Register(name, email, phone, password string) (int, error) {
	if name == "" || email == "" || password == "" {
		return 0, apperrors.NewValidationError("name, email and password cannot be empty")
	}
	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, apperrors.NewValidationError("email already registered")
	}
	return s.repo.CreateUser(name, email, phone, password)
}
