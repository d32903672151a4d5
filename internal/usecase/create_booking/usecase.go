package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BikeRepairService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BikeRepairService/internal/integrations/payments"
	"github.com/m04kA/SMC-BikeRepairService/internal/usecase/assign_mechanic"
	"github.com/m04kA/SMC-BikeRepairService/pkg/ptr"
)

// cancelReasonCheckoutFailed причина отмены, когда не удалось открыть оплату
const cancelReasonCheckoutFailed = "checkout could not be opened"

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	catalogRepo   CatalogRepository
	customerRepo  CustomerRepository
	assigner      MechanicAssigner
	paymentClient PaymentClient
	txManager     TransactionManager
	settings      Settings
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case.
// paymentClient может быть nil, если settings.PaymentsEnabled = false
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	customerRepo CustomerRepository,
	assigner MechanicAssigner,
	paymentClient PaymentClient,
	txManager TransactionManager,
	settings Settings,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if settings.AssignAttempts < 1 {
		settings.AssignAttempts = domain.DefaultAssignAttempts
	}
	if settings.Currency == "" {
		settings.Currency = domain.DefaultCurrency
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &UseCase{
		bookingRepo:   bookingRepo,
		catalogRepo:   catalogRepo,
		customerRepo:  customerRepo,
		assigner:      assigner,
		paymentClient: paymentClient,
		txManager:     txManager,
		settings:      settings,
		metrics:       metrics,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования.
// Механик выбирается и бронирование сохраняется в одной транзакции. Если уникальный
// индекс по (механик, дата, половина дня) сработал из-за параллельного запроса,
// транзакция повторяется целиком с новым выбором механика
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	phone, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateKey(req.Date)
	uc.logger.Info("CreateBooking: date=%s, slot=%s, bike=%s, services=%v, locale=%s",
		date, req.Slot, req.BikeType, req.ServiceIDs, req.Locale)

	// 2. Проверка даты относительно сегодняшнего дня мастерской
	today := domain.DateOnly(uc.timeProvider.Now().In(uc.settings.Location))
	if err := validateDate(req.Date, today, uc.settings.MaxAdvanceDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: date=%s, err=%v", date, err)
		return nil, err
	}

	// 3. Цены пересчитываются по каталогу, сумме клиента не доверяем
	serviceIDs := uniqueIDs(req.ServiceIDs)
	services, err := uc.catalogRepo.GetActiveByIDs(ctx, serviceIDs)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	if len(services) != len(serviceIDs) {
		uc.logger.Warn("CreateBooking: services not found: requested=%v, found=%d", serviceIDs, len(services))
		return nil, ErrServiceNotFound
	}

	total := domain.TotalPrice(services)
	if total != req.QuotedTotalOre {
		uc.logger.Warn("CreateBooking: price mismatch: quoted=%d, actual=%d", req.QuotedTotalOre, total)
		return nil, fmt.Errorf("%w: quoted %d, actual %d", ErrPriceMismatch, req.QuotedTotalOre, total)
	}

	// 4. Транзакция с повтором при гонке за механика
	var created *domain.Booking
	var bike *domain.Bike

	for attempt := 1; ; attempt++ {
		created, bike, err = uc.reserve(ctx, req, phone, serviceIDs, total)
		if !errors.Is(err, bookingRepo.ErrSlotTaken) {
			break
		}
		if attempt >= uc.settings.AssignAttempts {
			uc.logger.Warn("CreateBooking: slot still contended after %d attempts: date=%s, slot=%s",
				attempt, date, req.Slot)
			uc.incNoAvailability(req.Slot)
			return nil, ErrSlotNotAvailable
		}
		uc.logger.Info("CreateBooking: mechanic taken concurrently, retrying: attempt=%d, date=%s, slot=%s",
			attempt, date, req.Slot)
		if uc.metrics != nil {
			uc.metrics.IncAssignmentRetry()
		}
	}

	if errors.Is(err, ErrSlotNotAvailable) {
		uc.incNoAvailability(req.Slot)
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d, mechanic=%d, date=%s, slot=%s",
		created.ID, ptr.Value(created.MechanicID), date, created.Slot)
	if uc.metrics != nil {
		uc.metrics.IncBookingCreated(string(created.Slot))
	}

	// 5. Платежная сессия
	if uc.settings.PaymentsEnabled {
		if err := uc.openCheckout(ctx, created, req.Email, services); err != nil {
			return nil, err
		}
	}

	return toResponse(created, bike), nil
}

// reserve создает клиента, велосипед и бронирование в одной транзакции
func (uc *UseCase) reserve(
	ctx context.Context,
	req *Request,
	phone string,
	serviceIDs []int64,
	total int64,
) (*domain.Booking, *domain.Bike, error) {
	var created *domain.Booking
	var bike *domain.Bike

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 4.1. Клиент по номеру телефона
		customer, err := uc.customerRepo.UpsertByPhone(txCtx, &domain.Customer{
			Phone: phone,
			Name:  strings.TrimSpace(req.CustomerName),
			Email: emptyToNil(req.Email),
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to upsert customer: %v", err)
			return fmt.Errorf("%w: failed to upsert customer: %v", ErrInternal, err)
		}

		// 4.2. Велосипед с очередным номером
		count, err := uc.customerRepo.CountBikes(txCtx, customer.ID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count bikes of customer=%d: %v", customer.ID, err)
			return fmt.Errorf("%w: failed to count bikes: %v", ErrInternal, err)
		}

		bike, err = uc.customerRepo.CreateBike(txCtx, &domain.Bike{
			CustomerID: customer.ID,
			Nickname:   domain.BikeNickname(req.BikeType, count+1),
			BikeType:   req.BikeType,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create bike for customer=%d: %v", customer.ID, err)
			return fmt.Errorf("%w: failed to create bike: %v", ErrInternal, err)
		}

		// 4.3. Выбор механика
		assignment, err := uc.assigner.Execute(txCtx, &assign_mechanic.Request{Date: req.Date, Slot: req.Slot})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to assign mechanic: %v", err)
			return fmt.Errorf("%w: failed to assign mechanic: %v", ErrInternal, err)
		}
		if !assignment.Available {
			uc.logger.Warn("CreateBooking: no mechanic available: date=%s, slot=%s",
				domain.DateKey(req.Date), req.Slot)
			return ErrSlotNotAvailable
		}

		status := domain.StatusPending
		if !uc.settings.PaymentsEnabled {
			// Оплата на месте: бронирование подтверждается сразу
			status = domain.StatusConfirmed
		}

		// 4.4. Сохраняем бронирование; ErrSlotTaken пробрасывается как есть для повтора
		created, err = uc.bookingRepo.Create(txCtx, &domain.Booking{
			CustomerID:    customer.ID,
			BikeID:        bike.ID,
			MechanicID:    ptr.Ptr(assignment.MechanicID),
			RequestedDate: req.Date,
			Slot:          req.Slot,
			Status:        status,
			BikeType:      req.BikeType,
			ServiceIDs:    serviceIDs,
			TotalOre:      total,
			Currency:      uc.settings.Currency,
			Locale:        req.Locale,
			Address:       strings.TrimSpace(req.Address),
			Notes:         req.Notes,
			PaymentStatus: domain.PaymentUnpaid,
		})
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return err
		}
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, nil, err
	}

	return created, bike, nil
}

// openCheckout открывает платежную сессию и сохраняет её в бронировании
func (uc *UseCase) openCheckout(ctx context.Context, booking *domain.Booking, email *string, services []domain.RepairService) error {
	session, err := uc.paymentClient.CreateCheckout(ctx, payments.CheckoutRequest{
		BookingID:     booking.ID,
		AmountOre:     booking.TotalOre,
		Currency:      booking.Currency,
		Locale:        booking.Locale,
		Description:   checkoutDescription(booking, services),
		CustomerEmail: emptyToNil(email),
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to open checkout for booking=%d: %v", booking.ID, err)
		// Без платежной сессии не придет событие expired, поэтому половина дня освобождается сразу
		if cancelErr := uc.bookingRepo.Cancel(ctx, booking.ID, cancelReasonCheckoutFailed); cancelErr != nil {
			uc.logger.Error("CreateBooking: failed to release booking=%d after checkout failure: %v", booking.ID, cancelErr)
		}
		return fmt.Errorf("%w: %w", ErrPayment, err)
	}

	if err := uc.bookingRepo.AttachCheckout(ctx, booking.ID, session.ID, session.URL); err != nil {
		uc.logger.Error("CreateBooking: failed to attach checkout to booking=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to attach checkout: %v", ErrInternal, err)
	}

	booking.CheckoutSessionID = ptr.Ptr(session.ID)
	booking.CheckoutURL = ptr.Ptr(session.URL)

	uc.logger.Info("CreateBooking: checkout attached: booking=%d, session=%s", booking.ID, session.ID)
	return nil
}

func (uc *UseCase) incNoAvailability(slot domain.Slot) {
	if uc.metrics != nil {
		uc.metrics.IncNoAvailability(string(slot))
	}
}

func checkoutDescription(booking *domain.Booking, services []domain.RepairService) string {
	names := make([]string, 0, len(services))
	for _, s := range services {
		names = append(names, s.Name)
	}
	return fmt.Sprintf("%s %s: %s", domain.DateKey(booking.RequestedDate), booking.Slot, strings.Join(names, ", "))
}

func emptyToNil(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return ptr.Ptr(strings.TrimSpace(*v))
}

func toResponse(b *domain.Booking, bike *domain.Bike) *Response {
	resp := &Response{
		ID:            b.ID,
		MechanicID:    ptr.Value(b.MechanicID),
		Date:          b.RequestedDate,
		Slot:          b.Slot,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		TotalOre:      b.TotalOre,
		Currency:      b.Currency,
		CheckoutURL:   b.CheckoutURL,
		CreatedAt:     b.CreatedAt,
	}
	if bike != nil {
		resp.BikeNickname = bike.Nickname
	}
	return resp
}
