package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	AdminCookieName = "admin_auth"
	adminSubject    = "admin"
	adminRole       = "receptionist"
)

var (
	ErrInvalidPin   = errors.New("invalid_pin")
	ErrInvalidToken = errors.New("invalid_token")
)

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService guards the receptionist routes with a PIN login that issues a
// signed session token.
type AuthService struct {
	pinHash []byte
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// NewAuthService accepts the PIN either in clear text or already bcrypt-hashed.
func NewAuthService(pin, secret string, ttl time.Duration) (*AuthService, error) {
	if pin == "" {
		return nil, errors.New("admin pin is empty")
	}
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	hash := []byte(pin)
	if !isBcryptHash(pin) {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin pin: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = 5 * time.Hour
	}
	return &AuthService{pinHash: hash, secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *AuthService) TTL() time.Duration { return s.ttl }

// Login checks the PIN and returns a session token.
func (s *AuthService) Login(pin string) (string, error) {
	if pin == "" || bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)) != nil {
		return "", ErrInvalidPin
	}
	now := s.now()
	claims := AdminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *AuthService) Verify(tokenStr string) (*AdminClaims, error) {
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}
	t, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	c, ok := t.Claims.(*AdminClaims)
	if !ok || !t.Valid || c.Subject != adminSubject {
		return nil, ErrInvalidToken
	}
	return c, nil
}
