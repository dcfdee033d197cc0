package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cosguru/fracpropgen/internal/pkg/apperror"
)

const tokenIssuer = "proposalgen"

// DownloadGrant разрешение на скачивание после отправки формы контакта.
// Токен начинает действовать только с NotBefore: интерфейс показывает
// подтверждение и лишь потом запускает скачивание.
type DownloadGrant struct {
	Token     string    `json:"token"`
	NotBefore time.Time `json:"not_before"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DownloadTokenManager выпускает и проверяет токены скачивания (HS256).
type DownloadTokenManager struct {
	secret []byte
	ttl    time.Duration
	delay  time.Duration
	now    func() time.Time
}

// NewDownloadTokenManager создаёт менеджер токенов.
func NewDownloadTokenManager(secret string, ttl, delay time.Duration) *DownloadTokenManager {
	return &DownloadTokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		delay:  delay,
		now:    time.Now,
	}
}

// Issue выпускает токен. subject отпечаток email, сам адрес в токен не попадает.
func (m *DownloadTokenManager) Issue(subject string) (*DownloadGrant, error) {
	now := m.now()
	nbf := ceilSecond(now.Add(m.delay))
	exp := now.Add(m.ttl)
	if !exp.After(nbf) {
		return nil, fmt.Errorf("token: срок жизни %s не больше задержки %s", m.ttl, m.delay)
	}

	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(nbf),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("token: подпись: %w", err)
	}

	// NumericDate хранит секунды, возвращаем те же значения, что в токене
	return &DownloadGrant{
		Token:     token,
		NotBefore: claims.NotBefore.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify проверяет подпись, издателя и окно действия токена.
// Любая ошибка превращается в DOWNLOAD_LOCKED.
func (m *DownloadTokenManager) Verify(raw string) (*jwt.RegisteredClaims, error) {
	if raw == "" {
		return nil, apperror.ErrDownloadLocked
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = jwt.ErrTokenInvalidClaims
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDownloadLocked, lockedMessage(err))
	}
	if claims.NotBefore == nil {
		return nil, apperror.Wrap(jwt.ErrTokenRequiredClaimMissing, apperror.ErrCodeDownloadLocked, apperror.MsgDownloadLocked)
	}
	return claims, nil
}

// ceilSecond округляет вверх до секунды: в токене время хранится в секундах,
// а задержка не должна стать короче настроенной.
func ceilSecond(t time.Time) time.Time {
	truncated := t.Truncate(time.Second)
	if truncated.Equal(t) {
		return t
	}
	return truncated.Add(time.Second)
}

func lockedMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "Your download is being prepared. Please try again in a moment."
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Your download link has expired. Please submit your details again."
	default:
		return apperror.MsgDownloadLocked
	}
}
