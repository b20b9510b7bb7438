package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/quickeats/delivery-system/payment-service/application"
	"github.com/quickeats/delivery-system/payment-service/domain"
	"github.com/quickeats/delivery-system/payment-service/mocks"
	eventmocks "github.com/quickeats/delivery-system/shared/events/mocks"
	"github.com/quickeats/delivery-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentHandlersFixture struct {
	repo      *mocks.MockPaymentRepository
	gateway   *mocks.MockPaymentGateway
	publisher *eventmocks.MockPublisher
	router    chi.Router
}

func newPaymentHandlersFixture(t *testing.T) *paymentHandlersFixture {
	repo := mocks.NewMockPaymentRepository(t)
	gateway := mocks.NewMockPaymentGateway(t)
	publisher := eventmocks.NewMockPublisher(t)

	refund := application.NewRefundPayment(repo, gateway, publisher)
	handlers := NewPaymentHandlers(
		application.NewProcessPayment(repo, gateway, publisher),
		refund,
		application.NewCompensatePayment(repo, refund),
		application.NewGetPayment(repo),
	)

	router := chi.NewRouter()
	handlers.RegisterRoutes(router)

	return &paymentHandlersFixture{repo: repo, gateway: gateway, publisher: publisher, router: router}
}

func (f *paymentHandlersFixture) request(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func TestPaymentHandlers_ProcessPayment_Created(t *testing.T) {
	fixture := newPaymentHandlersFixture(t)

	fixture.repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()
	fixture.gateway.EXPECT().Charge(mock.Anything, mock.Anything).Return("sim_abc123", nil).Once()
	fixture.repo.EXPECT().Update(mock.Anything, mock.Anything).Return(nil).Once()
	fixture.publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()

	recorder := fixture.request(http.MethodPost, "/payments/internal",
		`{"order_id":"`+testOrderID+`","customer_id":"11111111-1111-4111-8111-111111111111","amount":2500,"currency":"USD"}`)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var response application.ProcessPaymentResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.NotEmpty(t, response.ID)
	assert.Equal(t, string(models.PaymentStatusSucceeded), response.Status)
}

func TestPaymentHandlers_ProcessPayment_DeclineIsPaymentRequired(t *testing.T) {
	fixture := newPaymentHandlersFixture(t)

	fixture.repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()
	fixture.gateway.EXPECT().Charge(mock.Anything, mock.Anything).Return("", domain.ErrPaymentDeclined).Once()
	fixture.repo.EXPECT().Update(mock.Anything, mock.Anything).Return(nil).Once()
	fixture.publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()

	recorder := fixture.request(http.MethodPost, "/payments/internal",
		`{"order_id":"`+testOrderID+`","customer_id":"11111111-1111-4111-8111-111111111111","amount":1099,"currency":"USD"}`)

	// 402 makes the calling saga step fail and starts compensation.
	assert.Equal(t, http.StatusPaymentRequired, recorder.Code)
}

func TestPaymentHandlers_ProcessPayment_ValidationIsUnprocessable(t *testing.T) {
	fixture := newPaymentHandlersFixture(t)

	recorder := fixture.request(http.MethodPost, "/payments/internal",
		`{"order_id":"","amount":2500,"currency":"USD"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestPaymentHandlers_RefundPayment_StatusMapping(t *testing.T) {
	t.Run("unknown payment", func(t *testing.T) {
		fixture := newPaymentHandlersFixture(t)

		fixture.repo.EXPECT().FindByID(mock.Anything, models.ID(testPaymentID)).Return(nil, nil).Once()

		recorder := fixture.request(http.MethodPost, "/payments/"+testPaymentID+"/refund", `{"reason":"test"}`)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("not refundable", func(t *testing.T) {
		fixture := newPaymentHandlersFixture(t)

		fixture.repo.EXPECT().FindByID(mock.Anything, models.ID(testPaymentID)).Return(&domain.Payment{
			ID:      models.ID(testPaymentID),
			OrderID: models.ID(testOrderID),
			Status:  models.PaymentStatusFailed,
		}, nil).Once()

		recorder := fixture.request(http.MethodPost, "/payments/"+testPaymentID+"/refund", "")

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

func TestPaymentHandlers_CompensatePayment_NothingToUndo(t *testing.T) {
	fixture := newPaymentHandlersFixture(t)

	fixture.repo.EXPECT().FindByID(mock.Anything, models.ID(testPaymentID)).Return(&domain.Payment{
		ID:      models.ID(testPaymentID),
		OrderID: models.ID(testOrderID),
		Status:  models.PaymentStatusFailed,
	}, nil).Once()

	recorder := fixture.request(http.MethodPost, "/payments/"+testPaymentID+"/compensate", "")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), string(models.PaymentStatusFailed))
}

func TestPaymentHandlers_GetPayment_ByOrderID(t *testing.T) {
	fixture := newPaymentHandlersFixture(t)

	fixture.repo.EXPECT().FindByOrderID(mock.Anything, models.ID(testOrderID)).Return(&domain.Payment{
		ID:      models.ID(testPaymentID),
		OrderID: models.ID(testOrderID),
		Status:  models.PaymentStatusSucceeded,
	}, nil).Once()

	recorder := fixture.request(http.MethodGet, "/payments/?order_id="+testOrderID, "")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), testPaymentID)
}
