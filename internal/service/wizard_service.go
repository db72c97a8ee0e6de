package service

import (
	"context"
	"net/url"

	"prank-kart/internal/cart"
	"prank-kart/internal/catalog"
	"prank-kart/internal/model"
	"prank-kart/internal/wizard"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// wizardService implements WizardService.
type wizardService struct {
	catalog  CatalogService
	sessions wizard.SessionStore
	carts    cart.Store
	logger   zerolog.Logger
}

// NewWizardService creates a new wizard service.
func NewWizardService(catalogSvc CatalogService, sessions wizard.SessionStore, carts cart.Store, logger zerolog.Logger) WizardService {
	return &wizardService{
		catalog:  catalogSvc,
		sessions: sessions,
		carts:    carts,
		logger:   logger.With().Str("service", "wizard").Logger(),
	}
}

func (s *wizardService) Start(ctx context.Context, deviceID, prankID string) (*WizardView, error) {
	prank, err := s.catalog.Get(ctx, model.CollectionPranks, prankID)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, wizard.NewCreating(uuid.NewString(), deviceID, *prank))
}

func (s *wizardService) Edit(ctx context.Context, deviceID, prankID string, at wizard.Stage) (*WizardView, error) {
	snapshot, err := s.carts.For(deviceID).Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	i := snapshot.IndexOf(prankID)
	if i < 0 {
		return nil, model.ErrNotFound
	}

	sess, err := wizard.NewEditing(uuid.NewString(), deviceID, snapshot.Items[i], at)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, sess)
}

func (s *wizardService) Resume(ctx context.Context, deviceID string, params url.Values) (*WizardView, error) {
	sess, err := wizard.DecodeParams(uuid.NewString(), deviceID, params)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, sess)
}

func (s *wizardService) Get(ctx context.Context, deviceID, sessionID string) (*WizardView, error) {
	sess, err := s.load(ctx, deviceID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sess), nil
}

func (s *wizardService) ChoosePrank(ctx context.Context, deviceID, sessionID, prankID string) (*WizardView, error) {
	prank, err := s.catalog.Get(ctx, model.CollectionPranks, prankID)
	if err != nil {
		return nil, err
	}
	return s.step(ctx, deviceID, sessionID, func(sess *wizard.Session, c cart.Cart) error {
		return sess.ChoosePrank(ctx, c, *prank)
	})
}

func (s *wizardService) ChooseBox(ctx context.Context, deviceID, sessionID, boxID string) (*WizardView, error) {
	box, err := s.catalog.Get(ctx, model.CollectionBoxes, boxID)
	if err != nil {
		return nil, err
	}
	return s.step(ctx, deviceID, sessionID, func(sess *wizard.Session, c cart.Cart) error {
		return sess.ChooseBox(ctx, c, *box)
	})
}

func (s *wizardService) ChooseWrap(ctx context.Context, deviceID, sessionID, wrapID string) (*WizardView, error) {
	wrap, err := s.catalog.Get(ctx, model.CollectionWraps, wrapID)
	if err != nil {
		return nil, err
	}
	return s.step(ctx, deviceID, sessionID, func(sess *wizard.Session, c cart.Cart) error {
		return sess.ChooseWrap(ctx, c, *wrap)
	})
}

func (s *wizardService) WriteMessage(ctx context.Context, deviceID, sessionID, message string) (*WizardView, error) {
	return s.step(ctx, deviceID, sessionID, func(sess *wizard.Session, c cart.Cart) error {
		return sess.WriteMessage(ctx, c, message)
	})
}

func (s *wizardService) ConfirmTerms(ctx context.Context, deviceID, sessionID string, accepted bool) (*WizardView, error) {
	return s.step(ctx, deviceID, sessionID, func(sess *wizard.Session, c cart.Cart) error {
		if err := sess.AcceptTerms(accepted); err != nil {
			return err
		}
		return sess.Commit(ctx, c)
	})
}

// step loads a session, applies one transition against the device cart and
// saves the result.
func (s *wizardService) step(ctx context.Context, deviceID, sessionID string, apply func(*wizard.Session, cart.Cart) error) (*WizardView, error) {
	sess, err := s.load(ctx, deviceID, sessionID)
	if err != nil {
		return nil, err
	}

	from := sess.Stage
	if err := apply(sess, s.carts.For(deviceID)); err != nil {
		s.logger.Debug().Err(err).Str("session_id", sessionID).Str("stage", string(from)).Msg("wizard step rejected")
		return nil, err
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Str("from", string(from)).
		Str("to", string(sess.Stage)).
		Msg("wizard advanced")

	if sess.Done() {
		// the cart already holds the result; a lost session only loses the view
		if err := s.sessions.Save(ctx, sess); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to save finished session")
		}
		return s.view(ctx, sess), nil
	}
	return s.save(ctx, sess)
}

func (s *wizardService) load(ctx context.Context, deviceID, sessionID string) (*wizard.Session, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.DeviceID != deviceID {
		return nil, wizard.ErrSessionNotFound
	}
	return sess, nil
}

func (s *wizardService) save(ctx context.Context, sess *wizard.Session) (*WizardView, error) {
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to save wizard session")
		return nil, err
	}
	return s.view(ctx, sess), nil
}

// view adds the selection options for box and wrap stages. Options that fail to
// load are left out so the client can retry with a plain read.
func (s *wizardService) view(ctx context.Context, sess *wizard.Session) *WizardView {
	v := &WizardView{Session: sess}
	if !sess.Done() {
		v.DeepLink = wizard.EncodeParams(sess).Encode()
	}

	var collection, selected string
	switch sess.Stage {
	case wizard.StageSelectBox:
		collection = model.CollectionBoxes
		if sess.IsEditing() {
			selected = sess.Draft.BoxID
		}
	case wizard.StageSelectWrap:
		collection = model.CollectionWraps
		if sess.IsEditing() {
			selected = sess.Draft.WrapID
		}
	default:
		return v
	}

	items, err := s.catalog.List(ctx, collection, "")
	if err != nil {
		s.logger.Warn().Err(err).Str("collection", collection).Msg("selection options unavailable")
		return v
	}

	v.Options = catalog.Cards(items)
	if def, ok := catalog.DefaultSelection(items, selected); ok {
		v.SelectedID = def.ID
	}
	return v
}
