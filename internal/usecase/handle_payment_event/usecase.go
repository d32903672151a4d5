package handle_payment_event

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BikeRepairService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-BikeRepairService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-BikeRepairService/internal/integrations/payments"
)

// UseCase применяет события оплаты к бронированиям.
// Каждое событие обрабатывается не более одного раза
type UseCase struct {
	eventRepo   PaymentEventRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	eventRepo PaymentEventRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		eventRepo:   eventRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case обработки события
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.EventID == "" || req.EventType == "" {
		return nil, fmt.Errorf("%w: event id and type are required", ErrInvalidInput)
	}

	uc.logger.Info("HandlePaymentEvent: event=%s, type=%s, booking=%d, session=%s",
		req.EventID, req.EventType, req.BookingID, req.SessionID)

	var result string

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Фиксируем событие: повторная доставка откатывает транзакцию
		if err := uc.eventRepo.InsertEvent(txCtx, req.EventID, req.EventType); err != nil {
			return err
		}

		var err error
		result, err = uc.apply(txCtx, req)
		return err
	})

	if errors.Is(err, paymentRepo.ErrDuplicateEvent) {
		uc.logger.Info("HandlePaymentEvent: duplicate event=%s ignored", req.EventID)
		uc.count(req.EventType, ResultDuplicate)
		return &Response{Result: ResultDuplicate, BookingID: req.BookingID}, nil
	}
	if err != nil {
		uc.logger.Error("HandlePaymentEvent: failed to handle event=%s: %v", req.EventID, err)
		uc.count(req.EventType, "error")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.count(req.EventType, result)
	return &Response{Result: result, BookingID: req.BookingID}, nil
}

// apply меняет статусы бронирования по типу события
func (uc *UseCase) apply(ctx context.Context, req *Request) (string, error) {
	var status domain.BookingStatus
	var payment domain.PaymentStatus
	var onlyAwaiting bool

	switch req.EventType {
	case payments.EventCheckoutCompleted, payments.EventAsyncPaymentSucceeded:
		if !req.Paid {
			// Отложенная оплата: ждем async_payment_succeeded
			uc.logger.Info("HandlePaymentEvent: session=%s completed without payment yet", req.SessionID)
			return ResultIgnored, nil
		}
		status, payment = domain.StatusConfirmed, domain.PaymentPaid
	case payments.EventCheckoutExpired:
		status, payment, onlyAwaiting = domain.StatusCancelled, domain.PaymentExpired, true
	case payments.EventAsyncPaymentFailed:
		status, payment, onlyAwaiting = domain.StatusCancelled, domain.PaymentFailed, true
	default:
		return ResultIgnored, nil
	}

	if req.BookingID <= 0 {
		uc.logger.Warn("HandlePaymentEvent: event=%s has no booking reference", req.EventID)
		return ResultIgnored, nil
	}

	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		uc.logger.Warn("HandlePaymentEvent: booking=%d from event=%s not found", req.BookingID, req.EventID)
		return ResultIgnored, nil
	}
	if err != nil {
		return "", fmt.Errorf("get booking: %w", err)
	}

	if onlyAwaiting && !booking.IsAwaitingPayment() {
		uc.logger.Info("HandlePaymentEvent: booking=%d is %s/%s, %s ignored",
			booking.ID, booking.Status, booking.PaymentStatus, req.EventType)
		return ResultIgnored, nil
	}

	if booking.IsCancelled() && payment == domain.PaymentPaid {
		// Половина дня уже освобождена, бронирование не восстанавливаем
		uc.logger.Warn("HandlePaymentEvent: booking=%d paid after cancellation, needs refund", booking.ID)
		status = domain.StatusCancelled
	}

	if booking.Status == domain.StatusCompleted {
		// Выполненный выезд не откатывается назад, меняется только оплата
		status = domain.StatusCompleted
	}

	if err := uc.bookingRepo.UpdateStatus(ctx, booking.ID, status, payment); err != nil {
		return "", fmt.Errorf("update booking: %w", err)
	}

	uc.logger.Info("HandlePaymentEvent: booking=%d -> status=%s, payment=%s", booking.ID, status, payment)
	return ResultProcessed, nil
}

func (uc *UseCase) count(eventType, result string) {
	if uc.metrics == nil {
		return
	}
	switch eventType {
	case payments.EventCheckoutCompleted, payments.EventCheckoutExpired,
		payments.EventAsyncPaymentSucceeded, payments.EventAsyncPaymentFailed:
	default:
		eventType = "other"
	}
	uc.metrics.IncPaymentEvent(eventType, result)
}
