package access

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// TokenBytes энтропия токена доступа
const TokenBytes = 32

// NewToken выпускает случайный токен в base64url без паддинга
func NewToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: read random: %v", ErrInternal, err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// TokensEqual сравнивает токены за постоянное время
func TokensEqual(expected, provided string) bool {
	if expected == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}

// Fingerprint короткий отпечаток токена для логов
func Fingerprint(token string) string {
	sum := blake3.Sum256([]byte(token))
	return hex.EncodeToString(sum[:6])
}

// Issuer реализует выпуск токенов для usecase бронирования
type Issuer struct{}

// NewToken выпускает новый токен
func (Issuer) NewToken() (string, error) {
	return NewToken()
}
