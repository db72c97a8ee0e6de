package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prank-kart/internal/model"
	"prank-kart/internal/repository"

	"github.com/rs/zerolog"
)

// addressService implements AddressService.
type addressService struct {
	repo   repository.AddressRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewAddressService creates a new address service.
func NewAddressService(repo repository.AddressRepository, logger zerolog.Logger) AddressService {
	return &addressService{
		repo:   repo,
		now:    time.Now,
		logger: logger.With().Str("service", "address").Logger(),
	}
}

// List returns the saved addresses with exactly one flagged as default. A
// repaired flag is written back.
func (s *addressService) List(ctx context.Context, userID string) ([]model.Address, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list addresses")
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}

	if model.EnsureDefault(addresses) {
		for _, a := range addresses {
			if !a.IsDefault {
				continue
			}
			if err := s.repo.SetDefault(ctx, userID, a.ID); err != nil {
				s.logger.Warn().Err(err).Str("address_id", a.ID).Msg("failed to persist repaired default address")
			} else {
				s.logger.Info().Str("address_id", a.ID).Msg("repaired default address")
			}
			break
		}
	}

	return addresses, nil
}

func (s *addressService) Get(ctx context.Context, userID, id string) (*model.Address, error) {
	address, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	if address == nil {
		return nil, model.ErrNotFound
	}
	return address, nil
}

// Add validates and saves a new address. The first address of a user is
// always the default.
func (s *addressService) Add(ctx context.Context, userID string, address *model.Address) (*model.Address, error) {
	if address == nil {
		return nil, model.NewValidationError("address is required")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list addresses")
		return nil, fmt.Errorf("failed to add address: %w", err)
	}

	a := *address
	a.ID = ""
	a.UserID = userID
	a.CreatedAt = s.now().UTC()
	if len(existing) == 0 {
		a.IsDefault = true
	}

	if err := s.repo.Create(ctx, &a); err != nil {
		return nil, fmt.Errorf("failed to add address: %w", err)
	}

	s.logger.Info().Str("address_id", a.ID).Bool("default", a.IsDefault).Msg("address added")
	return &a, nil
}

func (s *addressService) SetDefault(ctx context.Context, userID, id string) error {
	if err := s.repo.SetDefault(ctx, userID, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to set default address: %w", err)
	}
	return nil
}
