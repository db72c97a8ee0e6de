package model

import "time"

// OrderStatus is the fulfilment status of an order. Progress stages share the
// same set of names.
type OrderStatus string

const (
	StatusOrderPlaced OrderStatus = "Order Placed"
	StatusOrderPicked OrderStatus = "Order Picked"
	StatusOnTheWay    OrderStatus = "On the Way"
	StatusDelivered   OrderStatus = "Delivered"
	StatusCancelled   OrderStatus = "Cancelled"
)

// ProgressStages lists the timeline stages in their fixed order.
var ProgressStages = []OrderStatus{
	StatusOrderPlaced,
	StatusOrderPicked,
	StatusOnTheWay,
	StatusDelivered,
	StatusCancelled,
}

// PaymentStatus is the outcome of the simulated payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Order is the write-once record created at checkout.
type Order struct {
	OrderID          string          `json:"orderId" db:"order_id"`
	TransactionID    string          `json:"transactionId" db:"transaction_id"`
	UserID           string          `json:"userId" db:"user_id"`
	OrderNumber      string          `json:"orderNumber" db:"order_number"`
	Items            []OrderItem     `json:"items"`
	ProductCost      int             `json:"productCost" db:"product_cost"`
	DeliveryFees     int             `json:"deliveryFees" db:"delivery_fees"`
	TotalCost        int             `json:"totalCost" db:"total_cost"`
	DeliveryLocation Address         `json:"deliveryLocation" db:"delivery_location"`
	PaymentMethod    string          `json:"paymentMethod" db:"payment_method"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	Status           OrderStatus     `json:"status" db:"status"`
	Progress         []ProgressEntry `json:"progress" db:"progress"`
	CartGeneration   string          `json:"-" db:"cart_generation"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a price-frozen copy of a cart line item.
type OrderItem struct {
	ID         string `json:"-" db:"id"`
	OrderID    string `json:"-" db:"order_id"`
	Position   int    `json:"-" db:"position"`
	PrankID    string `json:"prankId" db:"prank_id"`
	PrankTitle string `json:"prankTitle" db:"prank_title"`
	PrankImage string `json:"prankImage" db:"prank_image"`
	PrankPrice int    `json:"prankPrice" db:"prank_price"`
	BoxID      string `json:"boxId" db:"box_id"`
	BoxTitle   string `json:"boxTitle" db:"box_title"`
	BoxImage   string `json:"boxImage" db:"box_image"`
	BoxPrice   *int   `json:"boxPrice" db:"box_price"`
	WrapID     string `json:"wrapId" db:"wrap_id"`
	WrapTitle  string `json:"wrapTitle" db:"wrap_title"`
	WrapImage  string `json:"wrapImage" db:"wrap_image"`
	WrapPrice  *int   `json:"wrapPrice" db:"wrap_price"`
	Message    string `json:"message,omitempty" db:"message"`
}

// Total returns the frozen price of the item.
func (i OrderItem) Total() int {
	return CartLineItem{PrankPrice: i.PrankPrice, BoxPrice: i.BoxPrice, WrapPrice: i.WrapPrice}.Total()
}

// LineItem returns the cart form of the item.
func (i OrderItem) LineItem() CartLineItem {
	return CartLineItem{
		PrankID:    i.PrankID,
		PrankTitle: i.PrankTitle,
		PrankImage: i.PrankImage,
		PrankPrice: i.PrankPrice,
		BoxID:      i.BoxID,
		BoxTitle:   i.BoxTitle,
		BoxImage:   i.BoxImage,
		BoxPrice:   copyInt(i.BoxPrice),
		WrapID:     i.WrapID,
		WrapTitle:  i.WrapTitle,
		WrapImage:  i.WrapImage,
		WrapPrice:  copyInt(i.WrapPrice),
		Message:    i.Message,
	}
}

// SnapshotItem copies a cart line item by value. Price pointers are duplicated
// so that the order never aliases cart or catalogue memory.
func SnapshotItem(item CartLineItem) OrderItem {
	return OrderItem{
		PrankID:    item.PrankID,
		PrankTitle: item.PrankTitle,
		PrankImage: item.PrankImage,
		PrankPrice: item.PrankPrice,
		BoxID:      item.BoxID,
		BoxTitle:   item.BoxTitle,
		BoxImage:   item.BoxImage,
		BoxPrice:   copyInt(item.BoxPrice),
		WrapID:     item.WrapID,
		WrapTitle:  item.WrapTitle,
		WrapImage:  item.WrapImage,
		WrapPrice:  copyInt(item.WrapPrice),
		Message:    item.Message,
	}
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// OrderSummary is the list-screen projection of an order.
type OrderSummary struct {
	OrderID     string      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	TotalCost   int         `json:"totalCost"`
	Status      OrderStatus `json:"status"`
	ItemCount   int         `json:"itemCount"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// CheckoutRequest is the payload for placing an order from the device cart.
type CheckoutRequest struct {
	UserID        string `json:"-"`
	DeviceID      string `json:"-"`
	AddressID     string `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
	TermsAccepted bool   `json:"termsAccepted"`
}
