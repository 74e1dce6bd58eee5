package app

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"campusnest/internal/domain"
)

// ErrInvalidCredentials signals a wrong email or password on login.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

const minPasswordLen = 8

// Claims is the JWT payload carried by every authenticated request.
type Claims struct {
	UserID     int64  `json:"uid"`
	Role       string `json:"role"`
	IsVerified bool   `json:"verified"`
	jwt.RegisteredClaims
}

// AuthService handles signup, login and token verification.
type AuthService struct {
	users     domain.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(users domain.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

type SignupInput struct {
	FullName string
	Email    string
	Password string
	Phone    string
	Role     string
}

// Signup creates an account and returns it with a fresh token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (domain.User, string, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return domain.User{}, "", domain.Invalid("full_name", "Full name is required")
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" {
		return domain.User{}, "", domain.Invalid("email", "Email is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return domain.User{}, "", domain.Invalid("email", "Invalid email address")
	}
	if len(in.Password) < minPasswordLen {
		return domain.User{}, "", domain.Invalid("password", "Password must be at least 8 characters long")
	}
	if err := validatePhone(in.Phone); err != nil {
		return domain.User{}, "", err
	}
	role := domain.Role(in.Role)
	if !role.Valid() {
		return domain.User{}, "", domain.Invalid("role", "Invalid role - Must be from user or admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        in.Phone,
	}
	if err := s.users.CreateUser(ctx, &u); err != nil {
		return domain.User{}, "", err
	}

	token, err := s.issueToken(u)
	if err != nil {
		return domain.User{}, "", err
	}
	return u, token, nil
}

// Login checks credentials and returns the user with a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := s.issueToken(u)
	if err != nil {
		return domain.User{}, "", err
	}
	return u, token, nil
}

// ParseToken verifies a token string and returns the principal it names.
func (s *AuthService) ParseToken(tokenString string) (domain.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return domain.Principal{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Principal{}, errors.New("invalid token")
	}
	return domain.Principal{
		ID:         claims.UserID,
		Role:       domain.Role(claims.Role),
		IsVerified: claims.IsVerified,
	}, nil
}

func (s *AuthService) issueToken(u domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:     u.ID,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func validatePhone(phone string) error {
	if phone == "" {
		return domain.Invalid("phone", "Phone number is required")
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return domain.Invalid("phone", "Phone number must contain digits only")
		}
	}
	if len(phone) != 10 {
		return domain.Invalid("phone", "Phone number must be 10 digits long")
	}
	return nil
}
