package reserve_slot

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	"github.com/m04kA/SMC-BlinkBooking/pkg/ptr"
)

// validatePayer проверяет, что кошелек является 32-байтным ключом в base58
// Возвращает каноническое представление ключа
func validatePayer(account string) (string, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return "", fmt.Errorf("%w: account is empty", ErrInvalidPayer)
	}

	pk, err := solana.PublicKeyFromBase58(account)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayer, err)
	}

	return pk.String(), nil
}

// validateMetadata нормализует и проверяет данные формы
func validateMetadata(req *Request) (*metadata, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	callFor := strings.TrimSpace(req.CallFor)

	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		return nil, fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxNameLength)
	}

	if utf8.RuneCountInString(email) > domain.MaxEmailLength {
		return nil, fmt.Errorf("%w: email must be at most %d characters", ErrInvalidInput, domain.MaxEmailLength)
	}

	if email != "" {
		addr, err := mail.ParseAddress(email)
		// Отклоняем формы с отображаемым именем: "Bob <bob@x.y>"
		if err != nil || addr.Address != email {
			return nil, fmt.Errorf("%w: email is not a valid address", ErrInvalidInput)
		}
	}

	if utf8.RuneCountInString(callFor) > domain.MaxCallForLength {
		return nil, fmt.Errorf("%w: callFor must be at most %d characters", ErrInvalidInput, domain.MaxCallForLength)
	}

	return &metadata{
		name:    ptr.NilIfEmpty(name),
		email:   ptr.NilIfEmpty(email),
		callFor: ptr.NilIfEmpty(callFor),
	}, nil
}

// lamportsOf переводит цену слота в лампорты, floor(price * 10^9)
func lamportsOf(slot *domain.Slot) (uint64, error) {
	l := slot.Lamports()
	if !l.IsPositive() {
		return 0, fmt.Errorf("%w: price %s is below one lamport", ErrInvalidPrice, slot.Price.String())
	}

	b := l.BigInt()
	if !b.IsUint64() {
		return 0, fmt.Errorf("%w: price %s overflows", ErrInvalidPrice, slot.Price.String())
	}

	return b.Uint64(), nil
}
