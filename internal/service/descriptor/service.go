package descriptor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	slotRepo "github.com/m04kA/SMC-BlinkBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-BlinkBooking/pkg/actions"
)

const (
	title = "Book meeting slot"

	DefaultIconPath = "/api/action/book/icon"
)

// Service формирует discovery документ для action бронирования
// Только читает: никаких изменений состояния
type Service struct {
	slots  SlotReader
	cfg    Config
	logger Logger
}

// NewService создает новый экземпляр сервиса
func NewService(slots SlotReader, cfg Config, logger Logger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.IconPath == "" {
		cfg.IconPath = DefaultIconPath
	}
	return &Service{
		slots:  slots,
		cfg:    cfg,
		logger: logger,
	}
}

// Describe возвращает документ action; ошибки превращаются в disabled состояние
func (s *Service) Describe(ctx context.Context, req Request) *actions.ActionGetResponse {
	if strings.TrimSpace(req.SlotID) == "" {
		return s.disabled("slotId is required in the URL.", "Missing slotId")
	}

	slot, err := s.slots.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return s.disabled("This slot was not found.", "Slot not found")
		}
		s.logger.Error("Describe: failed to get slot id=%s: %v", req.SlotID, err)
		return s.disabled("An unknown error occurred. Please try again.", "Error")
	}

	if !slot.IsAvailable() {
		return s.disabled(fmt.Sprintf("This slot is no longer available (%s).", slot.Status), "Slot unavailable")
	}

	price := slot.PriceLabel()
	label := fmt.Sprintf("Book for %s %s", price, domain.AssetSymbol)

	return &actions.ActionGetResponse{
		Type:        actions.TypeAction,
		Icon:        s.icon(slot, req.BaseURL),
		Title:       title,
		Description: s.description(slot, price),
		Label:       label,
		Links: &actions.ActionLinks{
			Actions: []actions.LinkedAction{
				{
					Type:       actions.TypeTransaction,
					Href:       Href(req.BaseURL, req.Path, req.RawQuery),
					Label:      label,
					Parameters: parameters(),
				},
			},
		},
	}
}

func (s *Service) disabled(description, label string) *actions.ActionGetResponse {
	return &actions.ActionGetResponse{
		Type:        actions.TypeAction,
		Icon:        s.cfg.FallbackIcon,
		Title:       title,
		Description: description,
		Label:       label,
		Disabled:    true,
	}
}

func (s *Service) description(slot *domain.Slot, price string) string {
	start := slot.StartTime.In(s.cfg.Location).Format(domain.DisplayTimeFormat)
	end := slot.EndTime.In(s.cfg.Location).Format(domain.DisplayTimeFormat)

	handle := ""
	if slot.Creator != nil {
		handle = slot.Creator.Username
	}

	return fmt.Sprintf("Book a call with %s. %s – %s. Price: %s %s.", handle, start, end, price, domain.AssetSymbol)
}

// icon: https изображение создателя как есть, любая другая ссылка через прокси, иначе fallback
func (s *Service) icon(slot *domain.Slot, baseURL string) string {
	if slot.Creator == nil || !slot.Creator.HasProfileImage() {
		return s.cfg.FallbackIcon
	}

	image := strings.TrimSpace(*slot.Creator.ProfileImageURL)
	if strings.HasPrefix(image, "https://") {
		return image
	}

	return baseURL + s.cfg.IconPath + "?slotId=" + url.QueryEscape(slot.ID)
}

// Href адрес POST запроса: внешний адрес + исходный путь и query
func Href(baseURL, path, rawQuery string) string {
	href := strings.TrimRight(baseURL, "/") + path
	if rawQuery != "" {
		href += "?" + rawQuery
	}
	return href
}

func parameters() []actions.ActionParameter {
	return []actions.ActionParameter{
		{Name: "name", Label: "Your name", Type: actions.ParameterText, Required: true, Layout: "row"},
		{Name: "email", Label: "Email", Type: actions.ParameterEmail, Required: true, Layout: "row"},
		{Name: "callFor", Label: "What's the call for?", Type: actions.ParameterTextarea},
	}
}
