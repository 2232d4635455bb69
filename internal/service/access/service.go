package access

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BlinkBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BlinkBooking/internal/service/access/models"
	"github.com/m04kA/SMC-BlinkBooking/pkg/metrics"
)

// EventBookingCreated ключ маршрутизации события о новом бронировании
const EventBookingCreated = "booking.created"

// Config параметры сервиса
type Config struct {
	DispatchTimeout time.Duration  // ограничение на отправку уведомлений одного бронирования
	Location        *time.Location // часовой пояс для писем
}

// Service выдает и проверяет доступ к приватной странице бронирования
type Service struct {
	bookings  BookingReader
	slots     SlotReader
	txManager TransactionManager
	mailer    Mailer    // nil, если почта не настроена
	publisher Publisher // nil, если брокер не настроен
	metrics   *metrics.Metrics
	cfg       Config
	logger    Logger

	wg sync.WaitGroup
}

// NewService создает новый экземпляр сервиса
func NewService(
	bookings BookingReader,
	slots SlotReader,
	txManager TransactionManager,
	mailer Mailer,
	publisher Publisher,
	m *metrics.Metrics,
	cfg Config,
	logger Logger,
) *Service {
	if cfg.DispatchTimeout <= 0 {
		cfg.DispatchTimeout = 15 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		bookings:  bookings,
		slots:     slots,
		txManager: txManager,
		mailer:    mailer,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
		logger:    logger,
	}
}

// JoinURL адрес приватной страницы бронирования
func JoinURL(baseURL, bookingID, token string) string {
	return strings.TrimRight(baseURL, "/") + "/booking/" + url.PathEscape(bookingID) + "?token=" + url.QueryEscape(token)
}

// Verify открывает доступ, только если бронирование существует и токен совпадает
// Для неизвестного бронирования и неверного токена возвращается одна и та же ошибка
func (s *Service) Verify(ctx context.Context, bookingID, token string) (*models.BookingView, error) {
	var view *models.BookingView

	// Бронирование и слот читаются в одном read-only снимке
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		booking, err := s.bookings.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Verify: booking id=%s not found", bookingID)
				return ErrAccessDenied
			}
			s.logger.Error("Verify: failed to get booking id=%s: %v", bookingID, err)
			return fmt.Errorf("%w: Verify - repository error: %v", ErrInternal, err)
		}

		if !TokensEqual(booking.AccessToken, token) {
			s.logger.Warn("Verify: token mismatch for booking id=%s, provided=%s", bookingID, Fingerprint(token))
			return ErrAccessDenied
		}

		slot, err := s.slots.GetByID(txCtx, booking.SlotID)
		if err != nil {
			s.logger.Error("Verify: failed to get slot id=%s for booking id=%s: %v", booking.SlotID, bookingID, err)
			return fmt.Errorf("%w: Verify - slot lookup: %v", ErrInternal, err)
		}

		view = models.FromDomain(booking, slot)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("Verify: transaction failed for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Verify - transaction: %v", ErrInternal, err)
	}

	return view, nil
}

// Dispatch асинхронно отправляет письмо плательщику и событие в брокер
// Ошибки только логируются и никогда не влияют на ответ
func (s *Service) Dispatch(booking *domain.Booking, slot *domain.Slot, baseURL string) {
	if s.mailer == nil && s.publisher == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Dispatch: panic for booking id=%s: %v", booking.ID, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.DispatchTimeout)
		defer cancel()

		s.sendEmail(ctx, booking, slot, baseURL)
		s.publishEvent(ctx, booking, slot)
	}()
}

// Wait дожидается завершения всех запущенных отправок
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) sendEmail(ctx context.Context, booking *domain.Booking, slot *domain.Slot, baseURL string) {
	if s.mailer == nil || !booking.HasEmail() {
		return
	}

	email, err := confirmationEmail(booking, slot, JoinURL(baseURL, booking.ID, booking.AccessToken), s.cfg.Location)
	if err != nil {
		s.metrics.ObserveNotification("email", err)
		s.logger.Error("Dispatch: booking id=%s: %v", booking.ID, err)
		return
	}

	id, err := s.mailer.Send(ctx, email)
	s.metrics.ObserveNotification("email", err)
	if err != nil {
		s.logger.Warn("Dispatch: email for booking id=%s (token %s) not sent: %v",
			booking.ID, Fingerprint(booking.AccessToken), err)
		return
	}

	s.logger.Info("Dispatch: email %s sent for booking id=%s", id, booking.ID)
}

func (s *Service) publishEvent(ctx context.Context, booking *domain.Booking, slot *domain.Slot) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.PublishJSON(ctx, EventBookingCreated, models.NewBookingCreatedEvent(booking, slot))
	s.metrics.ObserveNotification("event", err)
	if err != nil {
		s.logger.Warn("Dispatch: event for booking id=%s not published: %v", booking.ID, err)
	}
}
