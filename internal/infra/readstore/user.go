package readstore

import (
	"context"
	"errors"

	"github.com/SlamChillz/event-ticket-booking-system/internal/infra"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/db"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	view := &queries.AuthorizedUserView{}
	err := r.db.QueryRow(ctx,
		`SELECT id, email, role, is_active
		 FROM users
		 WHERE id = $1`,
		id,
	).Scan(&view.ID, &view.Email, &view.Role, &view.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	return view, nil
}

// FindByEmail also returns the stored password hash so the login command can
// verify credentials without a second round trip.
func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	view := &queries.AuthorizedUserView{}
	var passwordHash string
	err := r.db.QueryRow(ctx,
		`SELECT id, email, role, is_active, password_hash
		 FROM users
		 WHERE email = $1`,
		email,
	).Scan(&view.ID, &view.Email, &view.Role, &view.IsActive, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}

	return view, passwordHash, nil
}
