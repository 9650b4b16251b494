package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"claims-registry/internal/claims/registry"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/models"
)

const claimsTable = "claims"

// Schema creates the claims table. Rows of one session are ordered by
// position ascending; a prepended claim takes the smallest position.
const Schema = `CREATE TABLE IF NOT EXISTS claims (
	session_id   TEXT        NOT NULL,
	id           TEXT        NOT NULL,
	kind         TEXT        NOT NULL,
	amount       DOUBLE PRECISION NOT NULL,
	submitted_on DATE        NOT NULL,
	status       TEXT        NOT NULL,
	fraud_score  INTEGER     NOT NULL,
	flagged      BOOLEAN     NOT NULL DEFAULT FALSE,
	position     BIGINT      NOT NULL,
	details      JSONB       NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (session_id, id)
)`

const uniqueViolation = "23505"

var claimColumns = []string{
	"id", "kind", "amount", "submitted_on", "status", "fraud_score", "flagged", "details",
}

// EnsureSchema applies Schema.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return apperrors.NewStorageFailedError("ensure schema", err)
	}
	return nil
}

// PostgresFactory scopes one shared pool to each session.
type PostgresFactory struct {
	db *sql.DB
}

var _ registry.RepositoryFactory = (*PostgresFactory)(nil)

func NewPostgresFactory(db *sql.DB) *PostgresFactory {
	return &PostgresFactory{db: db}
}

func (f *PostgresFactory) Open(_ context.Context, sessionID string) (registry.Repository, error) {
	return NewPostgresRepository(f.db, sessionID), nil
}

// PostgresRepository persists one session's claims.
type PostgresRepository struct {
	db        *sql.DB
	sessionID string
	sb        sq.StatementBuilderType
}

var _ registry.Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db *sql.DB, sessionID string) *PostgresRepository {
	return &PostgresRepository{
		db:        db,
		sessionID: sessionID,
		sb:        sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PostgresRepository) selectClaims() sq.SelectBuilder {
	return r.sb.Select(claimColumns...).
		From(claimsTable).
		Where("session_id = ?", r.sessionID)
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Claim, error) {
	query, args, err := r.selectClaims().OrderBy("position ASC").ToSql()
	if err != nil {
		return nil, apperrors.NewStorageFailedError("build list", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageFailedError("list claims", err)
	}
	defer rows.Close()

	var claims []models.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, apperrors.NewStorageFailedError("scan claim", err)
		}
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageFailedError("rows iteration", err)
	}
	return claims, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (models.Claim, error) {
	query, args, err := r.selectClaims().Where("id = ?", id).ToSql()
	if err != nil {
		return models.Claim{}, apperrors.NewStorageFailedError("build get", err)
	}

	c, err := scanClaim(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Claim{}, apperrors.NewNotFound(id)
	}
	if err != nil {
		return models.Claim{}, apperrors.NewStorageFailedError("get claim", err)
	}
	return c, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.count(ctx, r.sb.Select("COUNT(*)").From(claimsTable).
		Where("session_id = ?", r.sessionID).
		Where("id = ?", id))
	return n > 0, err
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").From(claimsTable).Where("session_id = ?", r.sessionID))
}

func (r *PostgresRepository) count(ctx context.Context, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, apperrors.NewStorageFailedError("build count", err)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, apperrors.NewStorageFailedError("count claims", err)
	}
	return n, nil
}

func (r *PostgresRepository) Prepend(ctx context.Context, c models.Claim) error {
	details, err := encodeDetails(c)
	if err != nil {
		return apperrors.NewStorageFailedError("encode details", err)
	}

	query, args, err := r.sb.Insert(claimsTable).
		Columns("session_id", "id", "kind", "amount", "submitted_on", "status", "fraud_score", "flagged", "details", "position").
		Values(
			r.sessionID, c.ID, string(c.Kind), c.Amount, c.SubmittedOn.Time, string(c.Status), c.FraudScore, c.Flagged, details,
			sq.Expr("(SELECT COALESCE(MIN(position), 0) - 1 FROM claims WHERE session_id = ?)", r.sessionID),
		).
		ToSql()
	if err != nil {
		return apperrors.NewStorageFailedError("build insert", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.NewDuplicateClaimIDError(c.ID)
		}
		return apperrors.NewStorageFailedError("insert claim", err)
	}
	return nil
}

func (r *PostgresRepository) Replace(ctx context.Context, c models.Claim) error {
	details, err := encodeDetails(c)
	if err != nil {
		return apperrors.NewStorageFailedError("encode details", err)
	}

	query, args, err := r.sb.Update(claimsTable).
		Set("kind", string(c.Kind)).
		Set("amount", c.Amount).
		Set("submitted_on", c.SubmittedOn.Time).
		Set("status", string(c.Status)).
		Set("fraud_score", c.FraudScore).
		Set("flagged", c.Flagged).
		Set("details", details).
		Set("updated_at", sq.Expr("NOW()")).
		Where("session_id = ?", r.sessionID).
		Where("id = ?", c.ID).
		ToSql()
	if err != nil {
		return apperrors.NewStorageFailedError("build update", err)
	}

	return r.execOne(ctx, "update claim", c.ID, query, args)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.sb.Delete(claimsTable).
		Where("session_id = ?", r.sessionID).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return apperrors.NewStorageFailedError("build delete", err)
	}

	return r.execOne(ctx, "delete claim", id, query, args)
}

// execOne runs a statement that must touch exactly the row with id.
func (r *PostgresRepository) execOne(ctx context.Context, op, id, query string, args []interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewStorageFailedError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStorageFailedError(op, err)
	}
	if n == 0 {
		return apperrors.NewNotFound(id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClaim(row rowScanner) (models.Claim, error) {
	var (
		c           models.Claim
		kind        string
		status      string
		submittedOn time.Time
		details     []byte
	)
	if err := row.Scan(&c.ID, &kind, &c.Amount, &submittedOn, &status, &c.FraudScore, &c.Flagged, &details); err != nil {
		return models.Claim{}, err
	}

	c.Kind = models.ClaimKind(kind)
	c.Status = models.ClaimStatus(status)
	c.SubmittedOn = models.NewDate(submittedOn)
	if err := decodeDetails(&c, details); err != nil {
		return models.Claim{}, err
	}
	return c, nil
}

func encodeDetails(c models.Claim) ([]byte, error) {
	switch c.Kind {
	case models.KindHealth:
		return json.Marshal(c.Health)
	case models.KindVehicle:
		return json.Marshal(c.Vehicle)
	}
	return nil, fmt.Errorf("unknown claim kind %q", c.Kind)
}

func decodeDetails(c *models.Claim, data []byte) error {
	switch c.Kind {
	case models.KindHealth:
		c.Health = &models.HealthDetails{}
		return json.Unmarshal(data, c.Health)
	case models.KindVehicle:
		c.Vehicle = &models.VehicleDetails{}
		return json.Unmarshal(data, c.Vehicle)
	}
	return fmt.Errorf("unknown claim kind %q", c.Kind)
}
