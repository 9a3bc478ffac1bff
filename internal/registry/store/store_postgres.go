package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"selfid/internal/registry/models"
	id "selfid/pkg/domain"
	"selfid/pkg/platform/sentinel"
)

// Postgres persists the registry in two tables. The DID reverse index is the
// UNIQUE constraint on identities.did: one structure serves both directions,
// so the index can never drift from the identity table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registry store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS identities (
	owner        TEXT PRIMARY KEY,
	did          TEXT NOT NULL UNIQUE,
	credentials  TEXT[] NOT NULL DEFAULT '{}',
	created_seq  BIGINT NOT NULL,
	updated_seq  BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS registry_config (
	singleton        BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
	admin            TEXT NOT NULL,
	paused           BOOLEAN NOT NULL DEFAULT FALSE,
	total_identities BIGINT NOT NULL DEFAULT 0
);
`

// Migrate creates the schema and seeds the config row with admin if the
// registry is fresh. An existing config row wins over the seed value.
func (s *Postgres) Migrate(ctx context.Context, admin id.Principal) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create registry schema: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO registry_config (admin) VALUES ($1) ON CONFLICT (singleton) DO NOTHING`,
		admin.String())
	if err != nil {
		return fmt.Errorf("seed registry config: %w", err)
	}
	return nil
}

func (s *Postgres) GetIdentity(ctx context.Context, owner id.Principal) (*models.Identity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT owner, did, credentials, created_seq, updated_seq FROM identities WHERE owner = $1`,
		owner.String())
	return scanIdentity(row)
}

func (s *Postgres) OwnerOfDID(ctx context.Context, did id.DID) (id.Principal, error) {
	var owner string
	err := s.db.QueryRowContext(ctx,
		`SELECT owner FROM identities WHERE did = $1`, did.String()).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return id.ZeroPrincipal, sentinel.ErrNotFound
	}
	if err != nil {
		return id.ZeroPrincipal, fmt.Errorf("resolve did owner: %w", err)
	}
	return id.Principal(owner), nil
}

func (s *Postgres) Config(ctx context.Context) (models.Config, error) {
	var cfg models.Config
	var admin string
	err := s.db.QueryRowContext(ctx,
		`SELECT admin, paused, total_identities FROM registry_config`).
		Scan(&admin, &cfg.Paused, &cfg.TotalIdentities)
	if err != nil {
		return models.Config{}, fmt.Errorf("load registry config: %w", err)
	}
	cfg.Admin = id.Principal(admin)
	return cfg, nil
}

func (s *Postgres) LastSequence(ctx context.Context) (uint64, error) {
	var last uint64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(updated_seq), 0) FROM identities`).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("load last sequence: %w", err)
	}
	return last, nil
}

func (s *Postgres) CreateIdentity(ctx context.Context, ident *models.Identity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create identity: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO identities (owner, did, credentials, created_seq, updated_seq)
		 VALUES ($1, $2, $3, $4, $5)`,
		ident.Owner.String(), ident.DID.String(),
		pq.Array(credentialStrings(ident.Credentials)),
		int64(ident.CreatedAt), int64(ident.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert identity: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE registry_config SET total_identities = total_identities + 1`)
	if err != nil {
		return fmt.Errorf("bump identity counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create identity: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateDID(ctx context.Context, ident *models.Identity) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE identities SET did = $2, updated_seq = $3 WHERE owner = $1`,
		ident.Owner.String(), ident.DID.String(), int64(ident.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update did: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) UpdateCredentials(ctx context.Context, ident *models.Identity) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE identities SET credentials = $2, updated_seq = $3 WHERE owner = $1`,
		ident.Owner.String(),
		pq.Array(credentialStrings(ident.Credentials)),
		int64(ident.UpdatedAt))
	if err != nil {
		return fmt.Errorf("update credentials: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) SetPaused(ctx context.Context, paused bool) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE registry_config SET paused = $1`, paused); err != nil {
		return fmt.Errorf("set paused: %w", err)
	}
	return nil
}

func (s *Postgres) SetAdmin(ctx context.Context, admin id.Principal) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE registry_config SET admin = $1`, admin.String()); err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	return nil
}

func scanIdentity(row *sql.Row) (*models.Identity, error) {
	var (
		owner, did string
		creds      pq.StringArray
		created    int64
		updated    int64
	)
	err := row.Scan(&owner, &did, &creds, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan identity: %w", err)
	}
	credentials := make([]id.CredentialID, len(creds))
	for i, c := range creds {
		credentials[i] = id.CredentialID(c)
	}
	return &models.Identity{
		Owner:       id.Principal(owner),
		DID:         id.DID(did),
		Credentials: credentials,
		CreatedAt:   uint64(created),
		UpdatedAt:   uint64(updated),
	}, nil
}

func credentialStrings(creds []id.CredentialID) []string {
	out := make([]string, len(creds))
	for i, c := range creds {
		out[i] = c.String()
	}
	return out
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
