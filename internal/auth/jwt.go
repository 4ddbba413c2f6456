package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer значение поля iss в токенах художников
const Issuer = "paintblocks"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWeakSecret   = errors.New("secret key must be at least 32 bytes")
)

// Claims содержимое токена художника.
// CanWrap разрешает оборачивать блоки в холсты; окраска доступна любому валидному токену.
type Claims struct {
	Painter string `json:"painter"`
	CanWrap bool   `json:"can_wrap"`
	jwt.RegisteredClaims
}

// Authority выпускает и проверяет HS256 токены
type Authority struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthority создаёт Authority из base64 секрета.
// Пустой секрет заменяется случайным: токены будут действительны только до перезапуска.
func NewAuthority(secret string, ttl time.Duration) (*Authority, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if secret == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		return &Authority{secret: key, ttl: ttl}, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, err
	}
	if len(decoded) < 32 {
		return nil, ErrWeakSecret
	}
	return &Authority{secret: decoded, ttl: ttl}, nil
}

// Issue создаёт подписанный токен для художника
func (a *Authority) Issue(painter string, canWrap bool) (string, error) {
	now := time.Now()
	claims := &Claims{
		Painter: painter,
		CanWrap: canWrap,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   painter,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Validate проверяет подпись и сроки токена
func (a *Authority) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwt.WithIssuer(Issuer))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateSecureSecret генерирует новый секрет в base64 для конфигурации
func GenerateSecureSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}
