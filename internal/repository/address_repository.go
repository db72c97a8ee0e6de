package repository

import (
	"context"
	"errors"
	"fmt"

	"prank-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// addressRepository implements AddressRepository using PostgreSQL.
type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

const addressColumns = `
	id, user_id, address_label, building_name, street_name, pincode,
	flat_number, phone_number, first_name, last_name, autofetched_address,
	latitude, longitude, is_default, created_at
`

func scanAddress(row pgx.Row) (*model.Address, error) {
	var a model.Address
	var id uuid.UUID
	err := row.Scan(
		&id, &a.UserID, &a.AddressLabel, &a.BuildingName, &a.StreetName, &a.Pincode,
		&a.FlatNumber, &a.PhoneNumber, &a.FirstName, &a.LastName, &a.AutofetchedAddress,
		&a.Latitude, &a.Longitude, &a.IsDefault, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ID = id.String()
	return &a, nil
}

// ListByUser returns the user's addresses, newest first.
func (r *addressRepository) ListByUser(ctx context.Context, userID string) ([]model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query addresses")
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	addresses := []model.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan address row")
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

// GetByID returns one address of the user, or nil when it does not exist.
func (r *addressRepository) GetByID(ctx context.Context, userID, id string) (*model.Address, error) {
	addressID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 AND id = $2`

	a, err := scanAddress(r.pool.QueryRow(ctx, query, userID, addressID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("address_id", id).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}

	return a, nil
}

// Create appends an address to the user's saved set. A default address clears
// the flag on the others in the same transaction.
func (r *addressRepository) Create(ctx context.Context, a *model.Address) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if a.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = FALSE WHERE user_id = $1`, a.UserID); err != nil {
			return fmt.Errorf("failed to clear default address: %w", err)
		}
	}

	query := `
		INSERT INTO addresses (` + addressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = tx.Exec(ctx, query,
		a.ID, a.UserID, a.AddressLabel, a.BuildingName, a.StreetName, a.Pincode,
		a.FlatNumber, a.PhoneNumber, a.FirstName, a.LastName, a.AutofetchedAddress,
		a.Latitude, a.Longitude, a.IsDefault, a.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", a.UserID).Msg("failed to create address")
		return fmt.Errorf("failed to create address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit address: %w", err)
	}

	r.logger.Debug().Str("address_id", a.ID).Str("user_id", a.UserID).Msg("address created")
	return nil
}

// SetDefault rewrites the default flag across all of the user's addresses.
func (r *addressRepository) SetDefault(ctx context.Context, userID, id string) error {
	addressID, err := uuid.Parse(id)
	if err != nil {
		return model.ErrNotFound
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE addresses SET is_default = (id = $2)
		 WHERE user_id = $1
		   AND EXISTS (SELECT 1 FROM addresses WHERE user_id = $1 AND id = $2)`,
		userID, addressID,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to set default address")
		return fmt.Errorf("failed to set default address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
