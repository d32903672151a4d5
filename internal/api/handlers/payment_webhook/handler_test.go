package payment_webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-BikeRepairService/internal/integrations/payments"
	handlePaymentEvent "github.com/m04kA/SMC-BikeRepairService/internal/usecase/handle_payment_event"
	"github.com/m04kA/SMC-BikeRepairService/pkg/logger"
)

type mockParser struct {
	mock.Mock
}

func (m *mockParser) ParseWebhookEvent(payload []byte, signature string) (*payments.Event, error) {
	args := m.Called(string(payload), signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Event), args.Error(1)
}

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *handlePaymentEvent.Request) (*handlePaymentEvent.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handlePaymentEvent.Response), args.Error(1)
}

const payload = `{"id":"evt_1","type":"checkout.session.completed"}`

func deliver(parser *mockParser, uc *mockUseCase) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(payload))
	r.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rec := httptest.NewRecorder()
	NewHandler(parser, uc, logger.Nop()).Handle(rec, r)
	return rec
}

func TestHandle_Processed(t *testing.T) {
	parser := &mockParser{}
	uc := &mockUseCase{}

	parser.On("ParseWebhookEvent", payload, "t=1,v1=abc").Return(&payments.Event{
		ID:        "evt_1",
		Type:      payments.EventCheckoutCompleted,
		SessionID: "cs_test_1",
		BookingID: 42,
		Paid:      true,
	}, nil)
	uc.On("Execute", mock.Anything, &handlePaymentEvent.Request{
		EventID:   "evt_1",
		EventType: payments.EventCheckoutCompleted,
		SessionID: "cs_test_1",
		BookingID: 42,
		Paid:      true,
	}).Return(&handlePaymentEvent.Response{Result: handlePaymentEvent.ResultProcessed, BookingID: 42}, nil)

	rec := deliver(parser, uc)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":"processed","bookingId":42}`, rec.Body.String())
	uc.AssertExpectations(t)
}

func TestHandle_Duplicate(t *testing.T) {
	parser := &mockParser{}
	uc := &mockUseCase{}
	parser.On("ParseWebhookEvent", payload, mock.Anything).Return(&payments.Event{ID: "evt_1", Type: "charge.refunded"}, nil)
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(&handlePaymentEvent.Response{Result: handlePaymentEvent.ResultDuplicate}, nil)

	rec := deliver(parser, uc)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":"duplicate"}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		parseErr   error
		ucErr      error
		wantStatus int
		wantMsg    string
	}{
		{name: "not configured", parseErr: payments.ErrWebhookNotConfigured, wantStatus: http.StatusServiceUnavailable, wantMsg: msgNotConfigured},
		{name: "bad signature", parseErr: fmt.Errorf("%w: timestamp", payments.ErrInvalidSignature), wantStatus: http.StatusBadRequest, wantMsg: msgBadSignature},
		{name: "bad payload", parseErr: payments.ErrInvalidPayload, wantStatus: http.StatusBadRequest, wantMsg: msgBadPayload},
		{name: "invalid event", ucErr: handlePaymentEvent.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantMsg: msgBadPayload},
		{
			name:       "storage failure asks for redelivery",
			ucErr:      fmt.Errorf("%w: %v", handlePaymentEvent.ErrInternal, errors.New("deadlock")),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &mockParser{}
			uc := &mockUseCase{}
			if tt.parseErr != nil {
				parser.On("ParseWebhookEvent", payload, mock.Anything).Return(nil, tt.parseErr)
			} else {
				parser.On("ParseWebhookEvent", payload, mock.Anything).Return(&payments.Event{ID: "evt_1", Type: "x"}, nil)
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			}

			rec := deliver(parser, uc)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.wantMsg), rec.Body.String())
			if tt.parseErr != nil {
				uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
			}
		})
	}
}
