// Package wizard implements the order composition flow: a draft line item is
// carried from prank detail through box, wrap and message selection into the
// cart, either as a new item or as a replacement for one already there.
package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"prank-kart/internal/model"
)

// Stage is the screen a session is on.
type Stage string

const (
	StageProductDetail Stage = "product_detail"
	StageSelectBox     Stage = "select_box"
	StageSelectWrap    Stage = "select_wrap"
	StageSelectMessage Stage = "select_message"
	StageTermsGate     Stage = "terms_gate"
	StageCart          Stage = "cart"
)

var stageOrder = []Stage{
	StageProductDetail,
	StageSelectBox,
	StageSelectWrap,
	StageSelectMessage,
	StageTermsGate,
	StageCart,
}

func (s Stage) index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Stage) after(other Stage) bool {
	return s.index() > other.index()
}

// ParseStage validates a stage name.
func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if stage.index() < 0 {
		return "", model.NewValidationError(fmt.Sprintf("unknown wizard stage %q", s))
	}
	return stage, nil
}

// editableStages are the stages an in-cart item can be reopened at.
var editableStages = []Stage{StageProductDetail, StageSelectBox, StageSelectWrap, StageSelectMessage}

// Mode is either Creating or Editing.
type Mode interface {
	mode() string
}

// Creating walks every stage once and appends the draft at the terms gate.
type Creating struct{}

// Editing replaces the cart item keyed by OriginalPrankID on the first
// selection made.
type Editing struct {
	OriginalPrankID string
}

func (Creating) mode() string { return "creating" }
func (Editing) mode() string  { return "editing" }

// CartWriter is the part of a cart the wizard commits to.
type CartWriter interface {
	Upsert(ctx context.Context, item model.CartLineItem) error
	Replace(ctx context.Context, originalPrankID string, item model.CartLineItem) error
}

// Session is one run of the wizard for one device.
type Session struct {
	ID            string
	DeviceID      string
	Mode          Mode
	Stage         Stage
	Draft         Draft
	TermsAccepted bool
	UpdatedAt     time.Time
}

// NewCreating opens a session on the detail screen of prank.
func NewCreating(id, deviceID string, prank model.CatalogItem) *Session {
	return &Session{
		ID:       id,
		DeviceID: deviceID,
		Mode:     Creating{},
		Stage:    StageProductDetail,
		Draft:    Draft{}.withPrank(prank),
	}
}

// NewEditing reopens a cart item at one of the selection stages.
func NewEditing(id, deviceID string, item model.CartLineItem, at Stage) (*Session, error) {
	if !isEditable(at) {
		return nil, fmt.Errorf("%w: cannot edit at %s", model.ErrInvalidTransition, at)
	}
	draft := DraftFromItem(item)
	if err := draft.readyFor(StageProductDetail); err != nil {
		return nil, err
	}
	return &Session{
		ID:       id,
		DeviceID: deviceID,
		Mode:     Editing{OriginalPrankID: item.PrankID},
		Stage:    at,
		Draft:    draft,
	}, nil
}

func isEditable(stage Stage) bool {
	for _, s := range editableStages {
		if s == stage {
			return true
		}
	}
	return false
}

// Done reports whether the draft has been committed to the cart.
func (s *Session) Done() bool {
	return s.Stage == StageCart
}

// IsEditing reports whether the session replaces an existing cart item.
func (s *Session) IsEditing() bool {
	_, ok := s.Mode.(Editing)
	return ok
}

func (s *Session) expect(stage Stage) error {
	if s.Stage != stage {
		return fmt.Errorf("%w: session is at %s, not %s", model.ErrInvalidTransition, s.Stage, stage)
	}
	return nil
}

// ChoosePrank confirms the prank on the detail screen.
func (s *Session) ChoosePrank(ctx context.Context, cart CartWriter, prank model.CatalogItem) error {
	if err := s.expect(StageProductDetail); err != nil {
		return err
	}
	return s.advance(ctx, cart, s.Draft.withPrank(prank), StageSelectBox)
}

// ChooseBox records the box selection.
func (s *Session) ChooseBox(ctx context.Context, cart CartWriter, box model.CatalogItem) error {
	if err := s.expect(StageSelectBox); err != nil {
		return err
	}
	return s.advance(ctx, cart, s.Draft.withBox(box), StageSelectWrap)
}

// ChooseWrap records the wrap selection.
func (s *Session) ChooseWrap(ctx context.Context, cart CartWriter, wrap model.CatalogItem) error {
	if err := s.expect(StageSelectWrap); err != nil {
		return err
	}
	return s.advance(ctx, cart, s.Draft.withWrap(wrap), StageSelectMessage)
}

// WriteMessage records the gift message. Blank messages and messages longer
// than MaxMessageLength are rejected.
func (s *Session) WriteMessage(ctx context.Context, cart CartWriter, msg string) error {
	if err := s.expect(StageSelectMessage); err != nil {
		return err
	}
	msg, err := ValidateMessage(msg)
	if err != nil {
		return err
	}
	next := s.Draft
	next.Message = msg
	return s.advance(ctx, cart, next, StageTermsGate)
}

// AcceptTerms sets the terms checkbox. It does not move the session.
func (s *Session) AcceptTerms(accepted bool) error {
	if err := s.expect(StageTermsGate); err != nil {
		return err
	}
	s.TermsAccepted = accepted
	return nil
}

// Commit adds the draft to the cart once the terms are accepted.
func (s *Session) Commit(ctx context.Context, cart CartWriter) error {
	if err := s.expect(StageTermsGate); err != nil {
		return err
	}
	if !s.TermsAccepted {
		return model.ErrTermsNotAccepted
	}
	return s.commit(ctx, cart, s.Draft)
}

// advance moves a creating session to next. An editing session commits
// instead and skips the remaining stages.
func (s *Session) advance(ctx context.Context, cart CartWriter, next Draft, stage Stage) error {
	if s.IsEditing() {
		return s.commit(ctx, cart, next)
	}
	s.Draft = next
	s.Stage = stage
	return nil
}

// commit writes draft to the cart. The session is left untouched on failure.
func (s *Session) commit(ctx context.Context, cart CartWriter, draft Draft) error {
	if err := draft.readyFor(StageProductDetail); err != nil {
		return err
	}

	item := draft.LineItem()
	var err error
	switch m := s.Mode.(type) {
	case Editing:
		err = cart.Replace(ctx, m.OriginalPrankID, item)
	default:
		err = cart.Upsert(ctx, item)
	}
	if err != nil {
		return err
	}

	s.Draft = draft
	s.Stage = StageCart
	return nil
}

type sessionRecord struct {
	ID              string    `json:"id"`
	DeviceID        string    `json:"-"`
	Mode            string    `json:"mode"`
	EditMode        bool      `json:"editMode"`
	OriginalPrankID string    `json:"originalPrankId,omitempty"`
	Stage           Stage     `json:"stage"`
	Draft           Draft     `json:"draft"`
	TermsAccepted   bool      `json:"termsAccepted"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (s *Session) record() sessionRecord {
	rec := sessionRecord{
		ID:            s.ID,
		DeviceID:      s.DeviceID,
		Mode:          Creating{}.mode(),
		Stage:         s.Stage,
		Draft:         s.Draft,
		TermsAccepted: s.TermsAccepted,
		UpdatedAt:     s.UpdatedAt,
	}
	if e, ok := s.Mode.(Editing); ok {
		rec.Mode = e.mode()
		rec.EditMode = true
		rec.OriginalPrankID = e.OriginalPrankID
	}
	return rec
}

// MarshalJSON renders the session for API responses.
func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.record())
}

// storedSession is the persisted form, which also keeps the owning device.
type storedSession struct {
	sessionRecord
	DeviceID string `json:"deviceId"`
}

func encodeSession(s *Session) ([]byte, error) {
	rec := s.record()
	return json.Marshal(storedSession{sessionRecord: rec, DeviceID: rec.DeviceID})
}

func decodeSession(raw []byte) (*Session, error) {
	var stored storedSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	if stored.Stage.index() < 0 {
		return nil, fmt.Errorf("unknown stage %q", stored.Stage)
	}

	s := &Session{
		ID:            stored.ID,
		DeviceID:      stored.DeviceID,
		Mode:          Creating{},
		Stage:         stored.Stage,
		Draft:         stored.Draft,
		TermsAccepted: stored.TermsAccepted,
		UpdatedAt:     stored.UpdatedAt,
	}
	if stored.EditMode {
		s.Mode = Editing{OriginalPrankID: stored.OriginalPrankID}
	}
	return s, nil
}
