package handler

import (
	"context"
	"net/http"
	"net/url"

	"prank-kart/internal/middleware"
	"prank-kart/internal/model"
	"prank-kart/internal/service"
	"prank-kart/internal/wizard"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

const (
	testUser   = "user-1"
	testDevice = "device-1"
)

// withRoute attaches chi URL params and the caller identity to req.
func withRoute(req *http.Request, params ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = middleware.WithIdentity(ctx, testUser, testDevice)
	return req.WithContext(ctx)
}

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context, collection, category string) ([]model.CatalogItem, error) {
	args := m.Called(ctx, collection, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CatalogItem), args.Error(1)
}

func (m *MockCatalogService) Get(ctx context.Context, collection, id string) (*model.CatalogItem, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CatalogItem), args.Error(1)
}

func (m *MockCatalogService) Categories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCatalogService) Invalidate(ctx context.Context, collections ...string) {
	m.Called(ctx, collections)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID, userID string) (*model.Order, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, userID string) ([]model.OrderSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderSummary), args.Error(1)
}

func (m *MockOrderService) Progress(ctx context.Context, orderID, userID string) (*model.OrderProgress, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderProgress), args.Error(1)
}

// MockAddressService is a mock implementation of AddressService.
type MockAddressService struct {
	mock.Mock
}

func (m *MockAddressService) List(ctx context.Context, userID string) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Address), args.Error(1)
}

func (m *MockAddressService) Get(ctx context.Context, userID, id string) (*model.Address, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Address), args.Error(1)
}

func (m *MockAddressService) Add(ctx context.Context, userID string, address *model.Address) (*model.Address, error) {
	args := m.Called(ctx, userID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Address), args.Error(1)
}

func (m *MockAddressService) SetDefault(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

// MockWizardService is a mock implementation of WizardService.
type MockWizardService struct {
	mock.Mock
}

func (m *MockWizardService) view(args mock.Arguments) (*service.WizardView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WizardView), args.Error(1)
}

func (m *MockWizardService) Start(ctx context.Context, deviceID, prankID string) (*service.WizardView, error) {
	return m.view(m.Called(ctx, deviceID, prankID))
}

func (m *MockWizardService) Edit(ctx context.Context, deviceID, prankID string, at wizard.Stage) (*service.WizardView, error) {
	return m.view(m.Called(ctx, deviceID, prankID, at))
}

func (m *MockWizardService) Resume(ctx context.Context, deviceID string, params url.Values) (*service.WizardView, error) {
	return m.view(m.Called(ctx, deviceID, params))
}

func (m *MockWizardService) Get(ctx context.Context, deviceID, sessionID string) (*service.WizardView, error) {
	return m.view(m.Called(ctx, deviceID, sessionID))
}

func (m *MockWizardService) ChoosePrank(ctx context.Context, deviceID, sessionID, prankID string) (*service.WizardView, error) {
	return m.view(m.Called(ctx, deviceID, sessionID, prankID))
}

func (m *MockWizardService) ChooseBox(ctx context.Context, deviceID, sessionID, boxID string) (*service.WizardView, error) {
	return m.view(m.Called(ctx, deviceID, sessionID, boxID))
}

func (m *MockWizardService) ChooseWrap(ctx context.Context, deviceID, sessionID, wrapID string) (*service.WizardView, error) {
	return m.view(m.Called(ctx, deviceID, sessionID, wrapID))
}

func (m *MockWizardService) WriteMessage(ctx context.Context, deviceID, sessionID, message string) (*service.WizardView, error) {
	return m.view(m.Called(ctx, deviceID, sessionID, message))
}

func (m *MockWizardService) ConfirmTerms(ctx context.Context, deviceID, sessionID string, accepted bool) (*service.WizardView, error) {
	return m.view(m.Called(ctx, deviceID, sessionID, accepted))
}
