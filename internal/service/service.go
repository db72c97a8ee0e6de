package service

import (
	"context"
	"net/url"

	"prank-kart/internal/model"
	"prank-kart/internal/wizard"
)

// CatalogService defines read access to the prank, box and wrap catalogue.
type CatalogService interface {
	// List returns a collection in fetch order, optionally filtered by category.
	List(ctx context.Context, collection, category string) ([]model.CatalogItem, error)

	// Get returns a single item of a collection.
	Get(ctx context.Context, collection, id string) (*model.CatalogItem, error)

	// Categories returns the prank categories.
	Categories(ctx context.Context) ([]model.Category, error)

	// Invalidate drops cached lists of the given collections.
	Invalidate(ctx context.Context, collections ...string)
}

// OrderService defines checkout and order tracking.
type OrderService interface {
	// Checkout turns the device cart into an order and clears the cart.
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error)

	// GetOrder retrieves an order of the user with its items.
	GetOrder(ctx context.Context, orderID, userID string) (*model.Order, error)

	// ListOrders returns the user's orders, newest first.
	ListOrders(ctx context.Context, userID string) ([]model.OrderSummary, error)

	// Progress returns the tracker view of an order.
	Progress(ctx context.Context, orderID, userID string) (*model.OrderProgress, error)
}

// AddressService defines management of saved delivery addresses.
type AddressService interface {
	List(ctx context.Context, userID string) ([]model.Address, error)
	Get(ctx context.Context, userID, id string) (*model.Address, error)
	Add(ctx context.Context, userID string, address *model.Address) (*model.Address, error)
	SetDefault(ctx context.Context, userID, id string) error
}

// WizardService drives order composition sessions for a device.
type WizardService interface {
	// Start opens a session on the detail screen of a prank.
	Start(ctx context.Context, deviceID, prankID string) (*WizardView, error)

	// Edit reopens the cart item keyed by prankID at a selection stage.
	Edit(ctx context.Context, deviceID, prankID string, at wizard.Stage) (*WizardView, error)

	// Resume rebuilds a session from deep-link parameters.
	Resume(ctx context.Context, deviceID string, params url.Values) (*WizardView, error)

	// Get returns the current state of a session.
	Get(ctx context.Context, deviceID, sessionID string) (*WizardView, error)

	ChoosePrank(ctx context.Context, deviceID, sessionID, prankID string) (*WizardView, error)
	ChooseBox(ctx context.Context, deviceID, sessionID, boxID string) (*WizardView, error)
	ChooseWrap(ctx context.Context, deviceID, sessionID, wrapID string) (*WizardView, error)
	WriteMessage(ctx context.Context, deviceID, sessionID, message string) (*WizardView, error)

	// ConfirmTerms sets the terms checkbox and, when accepted, adds the draft to the cart.
	ConfirmTerms(ctx context.Context, deviceID, sessionID string, accepted bool) (*WizardView, error)
}

// WizardView is a session together with what its current screen needs.
type WizardView struct {
	Session *wizard.Session `json:"session"`
	// Options lists the boxes or wraps on the selection stages.
	Options    []model.CatalogCard `json:"options,omitempty"`
	SelectedID string              `json:"selectedId,omitempty"`
	DeepLink   string              `json:"deepLink,omitempty"`
}
