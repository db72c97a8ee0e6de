package model

import "time"

// CartLineItem is one committed entry in the cart, keyed by PrankID.
type CartLineItem struct {
	PrankID    string `json:"prankId"`
	PrankTitle string `json:"prankTitle"`
	PrankImage string `json:"prankImage"`
	PrankPrice int    `json:"prankPrice"`
	BoxID      string `json:"boxId"`
	BoxTitle   string `json:"boxTitle"`
	BoxImage   string `json:"boxImage"`
	BoxPrice   *int   `json:"boxPrice"`
	WrapID     string `json:"wrapId"`
	WrapTitle  string `json:"wrapTitle"`
	WrapImage  string `json:"wrapImage"`
	WrapPrice  *int   `json:"wrapPrice"`
	Message    string `json:"message,omitempty"`
}

// Total returns prankPrice + boxPrice + wrapPrice, with nil prices counted as zero.
func (i CartLineItem) Total() int {
	total := i.PrankPrice
	if i.BoxPrice != nil {
		total += *i.BoxPrice
	}
	if i.WrapPrice != nil {
		total += *i.WrapPrice
	}
	return total
}

// Equal compares two line items field by field, including price values.
func (i CartLineItem) Equal(o CartLineItem) bool {
	return i.PrankID == o.PrankID &&
		i.PrankTitle == o.PrankTitle &&
		i.PrankImage == o.PrankImage &&
		i.PrankPrice == o.PrankPrice &&
		i.BoxID == o.BoxID &&
		i.BoxTitle == o.BoxTitle &&
		i.BoxImage == o.BoxImage &&
		samePrice(i.BoxPrice, o.BoxPrice) &&
		i.WrapID == o.WrapID &&
		i.WrapTitle == o.WrapTitle &&
		i.WrapImage == o.WrapImage &&
		samePrice(i.WrapPrice, o.WrapPrice) &&
		i.Message == o.Message
}

func samePrice(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Cart is the device-local record of line items.
type Cart struct {
	Items       []CartLineItem `json:"items"`
	LastUpdated time.Time      `json:"lastUpdated"`
	// Generation changes every time the cart is cleared. Checkout records it on the
	// order so that a retried checkout of the same cart is recognised.
	Generation string `json:"generation,omitempty"`
}

// Total sums the line item totals.
func (c Cart) Total() int {
	total := 0
	for _, item := range c.Items {
		total += item.Total()
	}
	return total
}

// IndexOf returns the position of the item keyed by prankID, or -1.
func (c Cart) IndexOf(prankID string) int {
	for i, item := range c.Items {
		if item.PrankID == prankID {
			return i
		}
	}
	return -1
}
