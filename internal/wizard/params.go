package wizard

import (
	"fmt"
	"net/url"
	"strconv"

	"prank-kart/internal/model"
)

// Deep links carry a session as flat string parameters. Numbers are decimal
// integers, a missing box or wrap price is empty or "null", and editMode is
// exactly "true" or "false".
const (
	paramPrankID         = "prankId"
	paramPrankTitle      = "prankTitle"
	paramPrankImage      = "prankImage"
	paramPrankPrice      = "prankPrice"
	paramQuantity        = "quantity"
	paramBoxID           = "boxId"
	paramBoxTitle        = "boxTitle"
	paramBoxImage        = "boxImage"
	paramBoxPrice        = "boxPrice"
	paramWrapID          = "wrapId"
	paramWrapTitle       = "wrapTitle"
	paramWrapImage       = "wrapImage"
	paramWrapPrice       = "wrapPrice"
	paramMessage         = "message"
	paramEditMode        = "editMode"
	paramOriginalPrankID = "originalPrankId"
	paramStage           = "stage"
)

// EncodeParams flattens a session into deep-link parameters.
func EncodeParams(s *Session) url.Values {
	d := s.Draft
	v := url.Values{}
	v.Set(paramPrankID, d.PrankID)
	v.Set(paramPrankTitle, d.PrankTitle)
	v.Set(paramPrankImage, d.PrankImage)
	v.Set(paramPrankPrice, strconv.Itoa(d.PrankPrice))
	v.Set(paramQuantity, strconv.Itoa(d.Quantity))
	setOptional(v, paramBoxID, d.BoxID)
	setOptional(v, paramBoxTitle, d.BoxTitle)
	setOptional(v, paramBoxImage, d.BoxImage)
	setPrice(v, paramBoxPrice, d.BoxPrice)
	setOptional(v, paramWrapID, d.WrapID)
	setOptional(v, paramWrapTitle, d.WrapTitle)
	setOptional(v, paramWrapImage, d.WrapImage)
	setPrice(v, paramWrapPrice, d.WrapPrice)
	setOptional(v, paramMessage, d.Message)
	v.Set(paramStage, string(s.Stage))

	if e, ok := s.Mode.(Editing); ok {
		v.Set(paramEditMode, "true")
		v.Set(paramOriginalPrankID, e.OriginalPrankID)
	} else {
		v.Set(paramEditMode, "false")
	}
	return v
}

// DecodeParams rebuilds a session from deep-link parameters. The draft must
// hold every selection made before the requested stage.
func DecodeParams(id, deviceID string, v url.Values) (*Session, error) {
	editing, err := parseFlag(v.Get(paramEditMode))
	if err != nil {
		return nil, err
	}

	stage := StageProductDetail
	if raw := v.Get(paramStage); raw != "" {
		if stage, err = ParseStage(raw); err != nil {
			return nil, err
		}
	}
	if stage == StageCart {
		return nil, fmt.Errorf("%w: cannot resume a committed session", model.ErrInvalidTransition)
	}

	d := Draft{
		PrankID:    v.Get(paramPrankID),
		PrankTitle: v.Get(paramPrankTitle),
		PrankImage: v.Get(paramPrankImage),
		BoxID:      v.Get(paramBoxID),
		BoxTitle:   v.Get(paramBoxTitle),
		BoxImage:   v.Get(paramBoxImage),
		WrapID:     v.Get(paramWrapID),
		WrapTitle:  v.Get(paramWrapTitle),
		WrapImage:  v.Get(paramWrapImage),
		Message:    v.Get(paramMessage),
	}
	if d.PrankPrice, err = parseInt(paramPrankPrice, v.Get(paramPrankPrice)); err != nil {
		return nil, err
	}
	d.Quantity = 1
	if raw := v.Get(paramQuantity); raw != "" {
		if d.Quantity, err = parseInt(paramQuantity, raw); err != nil {
			return nil, err
		}
		if d.Quantity < 1 {
			return nil, model.NewValidationError("quantity must be at least 1")
		}
	}
	if d.BoxPrice, err = parsePrice(paramBoxPrice, v.Get(paramBoxPrice)); err != nil {
		return nil, err
	}
	if d.WrapPrice, err = parsePrice(paramWrapPrice, v.Get(paramWrapPrice)); err != nil {
		return nil, err
	}

	if editing {
		original := v.Get(paramOriginalPrankID)
		if original == "" {
			original = d.PrankID
		}
		s, err := NewEditing(id, deviceID, d.LineItem(), stage)
		if err != nil {
			return nil, err
		}
		s.Mode = Editing{OriginalPrankID: original}
		s.Draft.Quantity = d.Quantity
		return s, nil
	}

	if err := d.readyFor(stage); err != nil {
		return nil, err
	}
	return &Session{ID: id, DeviceID: deviceID, Mode: Creating{}, Stage: stage, Draft: d}, nil
}

func parseFlag(raw string) (bool, error) {
	switch raw {
	case "true":
		return true, nil
	case "false", "":
		return false, nil
	default:
		return false, model.NewValidationError(fmt.Sprintf("editMode must be \"true\" or \"false\", got %q", raw))
	}
}

func parseInt(name, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewValidationError(fmt.Sprintf("%s must be an integer", name))
	}
	if n < 0 {
		return 0, model.NewValidationError(fmt.Sprintf("%s must not be negative", name))
	}
	return n, nil
}

func parsePrice(name, raw string) (*int, error) {
	if raw == "" || raw == "null" {
		return nil, nil
	}
	n, err := parseInt(name, raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func setOptional(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setPrice(v url.Values, key string, p *int) {
	if p == nil {
		v.Set(key, "null")
		return
	}
	v.Set(key, strconv.Itoa(*p))
}
