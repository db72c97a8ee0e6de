package wizard

import (
	"strings"
	"unicode/utf8"

	"prank-kart/internal/model"
)

// MaxMessageLength bounds the gift message, counted in characters.
const MaxMessageLength = 500

// Draft is the line item being assembled. Each stage fills in its own
// selection and keeps everything it was handed.
type Draft struct {
	PrankID    string `json:"prankId"`
	PrankTitle string `json:"prankTitle"`
	PrankImage string `json:"prankImage"`
	PrankPrice int    `json:"prankPrice"`
	Quantity   int    `json:"quantity"`
	BoxID      string `json:"boxId,omitempty"`
	BoxTitle   string `json:"boxTitle,omitempty"`
	BoxImage   string `json:"boxImage,omitempty"`
	BoxPrice   *int   `json:"boxPrice"`
	WrapID     string `json:"wrapId,omitempty"`
	WrapTitle  string `json:"wrapTitle,omitempty"`
	WrapImage  string `json:"wrapImage,omitempty"`
	WrapPrice  *int   `json:"wrapPrice"`
	Message    string `json:"message,omitempty"`
}

// DraftFromItem pre-populates a draft from a line item already in the cart.
func DraftFromItem(item model.CartLineItem) Draft {
	return Draft{
		PrankID:    item.PrankID,
		PrankTitle: item.PrankTitle,
		PrankImage: item.PrankImage,
		PrankPrice: item.PrankPrice,
		Quantity:   1,
		BoxID:      item.BoxID,
		BoxTitle:   item.BoxTitle,
		BoxImage:   item.BoxImage,
		BoxPrice:   clonePrice(item.BoxPrice),
		WrapID:     item.WrapID,
		WrapTitle:  item.WrapTitle,
		WrapImage:  item.WrapImage,
		WrapPrice:  clonePrice(item.WrapPrice),
		Message:    item.Message,
	}
}

// LineItem converts the draft to the value stored in the cart.
func (d Draft) LineItem() model.CartLineItem {
	return model.CartLineItem{
		PrankID:    d.PrankID,
		PrankTitle: d.PrankTitle,
		PrankImage: d.PrankImage,
		PrankPrice: d.PrankPrice,
		BoxID:      d.BoxID,
		BoxTitle:   d.BoxTitle,
		BoxImage:   d.BoxImage,
		BoxPrice:   clonePrice(d.BoxPrice),
		WrapID:     d.WrapID,
		WrapTitle:  d.WrapTitle,
		WrapImage:  d.WrapImage,
		WrapPrice:  clonePrice(d.WrapPrice),
		Message:    d.Message,
	}
}

func (d Draft) withPrank(prank model.CatalogItem) Draft {
	d.PrankID = prank.ID
	d.PrankTitle = prank.Title
	d.PrankImage = prank.ImageURL
	d.PrankPrice = prank.PriceOrZero()
	if d.Quantity < 1 {
		d.Quantity = 1
	}
	return d
}

func (d Draft) withBox(box model.CatalogItem) Draft {
	d.BoxID = box.ID
	d.BoxTitle = box.Title
	d.BoxImage = box.ImageURL
	d.BoxPrice = clonePrice(box.Price)
	return d
}

func (d Draft) withWrap(wrap model.CatalogItem) Draft {
	d.WrapID = wrap.ID
	d.WrapTitle = wrap.Title
	d.WrapImage = wrap.ImageURL
	d.WrapPrice = clonePrice(wrap.Price)
	return d
}

// readyFor reports whether the draft carries every selection made before stage.
func (d Draft) readyFor(stage Stage) error {
	if d.PrankID == "" {
		return model.NewValidationError("prankId is required")
	}
	if stage.after(StageSelectBox) && d.BoxID == "" {
		return model.NewValidationError("boxId is required")
	}
	if stage.after(StageSelectWrap) && d.WrapID == "" {
		return model.NewValidationError("wrapId is required")
	}
	if stage.after(StageSelectMessage) {
		if _, err := ValidateMessage(d.Message); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMessage trims msg and checks it is present and within MaxMessageLength.
func ValidateMessage(msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", model.NewValidationError("message is required")
	}
	if utf8.RuneCountInString(msg) > MaxMessageLength {
		return "", model.NewValidationError("message must be at most 500 characters")
	}
	return msg, nil
}

func clonePrice(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
