package create_slot

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
)

// Ограничения колонки slots.price NUMERIC(20, 9)
const (
	maxPriceScale         = domain.LamportsDecimals
	maxPriceIntegerDigits = 11
)

var priceUpperBound = decimal.New(1, maxPriceIntegerDigits)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.CreatorID) == "" {
		return fmt.Errorf("%w: creatorId is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if !req.EndTime.After(req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if req.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	if !req.Price.Equal(req.Price.Truncate(maxPriceScale)) {
		return fmt.Errorf("%w: price must have at most %d decimal places", ErrInvalidInput, maxPriceScale)
	}

	if req.Price.GreaterThanOrEqual(priceUpperBound) {
		return fmt.Errorf("%w: price must have at most %d integer digits", ErrInvalidInput, maxPriceIntegerDigits)
	}

	if req.MeetLink != nil {
		u, err := url.Parse(*req.MeetLink)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return fmt.Errorf("%w: meetLink must be an http(s) URL", ErrInvalidInput)
		}
	}

	return nil
}
