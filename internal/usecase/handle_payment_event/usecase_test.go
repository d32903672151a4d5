package handle_payment_event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BikeRepairService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-BikeRepairService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-BikeRepairService/internal/integrations/payments"
	"github.com/m04kA/SMC-BikeRepairService/pkg/logger"
	"github.com/m04kA/SMC-BikeRepairService/pkg/ptr"
)

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) InsertEvent(ctx context.Context, eventID, eventType string) error {
	return m.Called(ctx, eventID, eventType).Error(0)
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, payment domain.PaymentStatus) error {
	return m.Called(ctx, id, status, payment).Error(0)
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingMetrics struct {
	events []string
}

func (r *recordingMetrics) IncPaymentEvent(eventType, result string) {
	r.events = append(r.events, eventType+"/"+result)
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:            42,
		MechanicID:    ptr.Ptr(int64(3)),
		Slot:          domain.SlotMorning,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentUnpaid,
	}
}

func newUseCase(events *mockEventRepo, bookings *mockBookingRepo, m Metrics) *UseCase {
	return NewUseCase(events, bookings, fakeTxManager{}, m, logger.Nop())
}

func TestExecute_CompletedConfirmsBooking(t *testing.T) {
	events := &mockEventRepo{}
	bookings := &mockBookingRepo{}
	m := &recordingMetrics{}
	events.On("InsertEvent", mock.Anything, "evt_1", payments.EventCheckoutCompleted).Return(nil)
	bookings.On("GetByID", mock.Anything, int64(42)).Return(pendingBooking(), nil)
	bookings.On("UpdateStatus", mock.Anything, int64(42), domain.StatusConfirmed, domain.PaymentPaid).Return(nil)

	resp, err := newUseCase(events, bookings, m).Execute(context.Background(), &Request{
		EventID: "evt_1", EventType: payments.EventCheckoutCompleted, BookingID: 42, Paid: true,
	})

	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, resp.Result)
	assert.Equal(t, []string{"checkout.session.completed/processed"}, m.events)
	bookings.AssertExpectations(t)
}

func TestExecute_ExpiredCancelsPendingBooking(t *testing.T) {
	events := &mockEventRepo{}
	bookings := &mockBookingRepo{}
	events.On("InsertEvent", mock.Anything, "evt_2", payments.EventCheckoutExpired).Return(nil)
	bookings.On("GetByID", mock.Anything, int64(42)).Return(pendingBooking(), nil)
	bookings.On("UpdateStatus", mock.Anything, int64(42), domain.StatusCancelled, domain.PaymentExpired).Return(nil)

	resp, err := newUseCase(events, bookings, nil).Execute(context.Background(), &Request{
		EventID: "evt_2", EventType: payments.EventCheckoutExpired, BookingID: 42,
	})

	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, resp.Result)
	bookings.AssertExpectations(t)
}

func TestExecute_ExpiredIgnoredForConfirmedBooking(t *testing.T) {
	events := &mockEventRepo{}
	bookings := &mockBookingRepo{}
	confirmed := pendingBooking()
	confirmed.Status = domain.StatusConfirmed
	confirmed.PaymentStatus = domain.PaymentPaid
	events.On("InsertEvent", mock.Anything, "evt_3", payments.EventCheckoutExpired).Return(nil)
	bookings.On("GetByID", mock.Anything, int64(42)).Return(confirmed, nil)

	resp, err := newUseCase(events, bookings, nil).Execute(context.Background(), &Request{
		EventID: "evt_3", EventType: payments.EventCheckoutExpired, BookingID: 42,
	})

	require.NoError(t, err)
	assert.Equal(t, ResultIgnored, resp.Result)
	bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_DuplicateEvent(t *testing.T) {
	events := &mockEventRepo{}
	bookings := &mockBookingRepo{}
	m := &recordingMetrics{}
	events.On("InsertEvent", mock.Anything, "evt_1", payments.EventCheckoutExpired).Return(paymentRepo.ErrDuplicateEvent)

	resp, err := newUseCase(events, bookings, m).Execute(context.Background(), &Request{
		EventID: "evt_1", EventType: payments.EventCheckoutExpired, BookingID: 42,
	})

	require.NoError(t, err)
	assert.Equal(t, ResultDuplicate, resp.Result)
	assert.Equal(t, []string{"checkout.session.expired/duplicate"}, m.events)
	bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestExecute_UnknownTypeIgnored(t *testing.T) {
	events := &mockEventRepo{}
	m := &recordingMetrics{}
	events.On("InsertEvent", mock.Anything, "evt_9", "charge.refunded").Return(nil)

	resp, err := newUseCase(events, &mockBookingRepo{}, m).Execute(context.Background(), &Request{
		EventID: "evt_9", EventType: "charge.refunded",
	})

	require.NoError(t, err)
	assert.Equal(t, ResultIgnored, resp.Result)
	assert.Equal(t, []string{"other/ignored"}, m.events)
}

func TestExecute_CompletedWithoutPaymentWaits(t *testing.T) {
	events := &mockEventRepo{}
	bookings := &mockBookingRepo{}
	events.On("InsertEvent", mock.Anything, "evt_4", payments.EventCheckoutCompleted).Return(nil)

	resp, err := newUseCase(events, bookings, nil).Execute(context.Background(), &Request{
		EventID: "evt_4", EventType: payments.EventCheckoutCompleted, BookingID: 42, Paid: false,
	})

	require.NoError(t, err)
	assert.Equal(t, ResultIgnored, resp.Result)
	bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestExecute_PaidAfterCancellationStaysCancelled(t *testing.T) {
	events := &mockEventRepo{}
	bookings := &mockBookingRepo{}
	cancelled := pendingBooking()
	cancelled.Status = domain.StatusCancelled
	events.On("InsertEvent", mock.Anything, "evt_5", payments.EventCheckoutCompleted).Return(nil)
	bookings.On("GetByID", mock.Anything, int64(42)).Return(cancelled, nil)
	bookings.On("UpdateStatus", mock.Anything, int64(42), domain.StatusCancelled, domain.PaymentPaid).Return(nil)

	resp, err := newUseCase(events, bookings, nil).Execute(context.Background(), &Request{
		EventID: "evt_5", EventType: payments.EventCheckoutCompleted, BookingID: 42, Paid: true,
	})

	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, resp.Result)
	bookings.AssertExpectations(t)
}

func TestExecute_LatePaymentKeepsCompletedStatus(t *testing.T) {
	events := &mockEventRepo{}
	bookings := &mockBookingRepo{}
	completed := pendingBooking()
	completed.Status = domain.StatusCompleted
	events.On("InsertEvent", mock.Anything, "evt_late", payments.EventAsyncPaymentSucceeded).Return(nil)
	bookings.On("GetByID", mock.Anything, int64(42)).Return(completed, nil)
	bookings.On("UpdateStatus", mock.Anything, int64(42), domain.StatusCompleted, domain.PaymentPaid).Return(nil)

	resp, err := newUseCase(events, bookings, nil).Execute(context.Background(), &Request{
		EventID: "evt_late", EventType: payments.EventAsyncPaymentSucceeded, BookingID: 42, Paid: true,
	})

	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, resp.Result)
	bookings.AssertExpectations(t)
	bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, int64(42), domain.StatusConfirmed, mock.Anything)
}

func TestExecute_MissingBookingIgnored(t *testing.T) {
	events := &mockEventRepo{}
	bookings := &mockBookingRepo{}
	events.On("InsertEvent", mock.Anything, "evt_6", payments.EventCheckoutExpired).Return(nil)
	bookings.On("GetByID", mock.Anything, int64(404)).Return(nil, bookingRepo.ErrBookingNotFound)

	resp, err := newUseCase(events, bookings, nil).Execute(context.Background(), &Request{
		EventID: "evt_6", EventType: payments.EventCheckoutExpired, BookingID: 404,
	})

	require.NoError(t, err)
	assert.Equal(t, ResultIgnored, resp.Result)
}

func TestExecute_Errors(t *testing.T) {
	_, err := newUseCase(&mockEventRepo{}, &mockBookingRepo{}, nil).Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	events := &mockEventRepo{}
	bookings := &mockBookingRepo{}
	events.On("InsertEvent", mock.Anything, "evt_7", payments.EventCheckoutCompleted).Return(nil)
	bookings.On("GetByID", mock.Anything, int64(42)).Return(nil, errors.New("db down"))

	_, err = newUseCase(events, bookings, nil).Execute(context.Background(), &Request{
		EventID: "evt_7", EventType: payments.EventCheckoutCompleted, BookingID: 42, Paid: true,
	})
	assert.ErrorIs(t, err, ErrInternal)
}
