// internal/repository/provider_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"provider-ranking-workers/internal/models"
)

var ErrProviderNotFound = errors.New("PROVIDER_NOT_FOUND")

const providerColumns = `id, npi, name, specialty, setting, city, state,
	factor_a, factor_b, factor_c, factor_d, factor_e, factor_f, updated_at`

// ListFilter narrows a provider listing at the database. Scoring filters
// such as minScore are applied after enrichment, not here.
type ListFilter struct {
	State string
	IDs   []string
	Limit int
}

// ProviderRepository reads providers and their field activity from Postgres.
type ProviderRepository struct {
	db *sqlx.DB
}

func NewProviderRepository(db *sqlx.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// providerRow mirrors the providers table. Factor columns are nullable; a
// NULL becomes a missing factor rather than a zero.
type providerRow struct {
	ID        string          `db:"id"`
	NPI       string          `db:"npi"`
	Name      string          `db:"name"`
	Specialty sql.NullString  `db:"specialty"`
	Setting   sql.NullString  `db:"setting"`
	City      string          `db:"city"`
	State     string          `db:"state"`
	FactorA   sql.NullFloat64 `db:"factor_a"`
	FactorB   sql.NullFloat64 `db:"factor_b"`
	FactorC   sql.NullFloat64 `db:"factor_c"`
	FactorD   sql.NullFloat64 `db:"factor_d"`
	FactorE   sql.NullFloat64 `db:"factor_e"`
	FactorF   sql.NullFloat64 `db:"factor_f"`
	UpdatedAt sql.NullTime    `db:"updated_at"`
}

func (r providerRow) toModel() models.Provider {
	p := models.Provider{
		ID:           r.ID,
		NPI:          r.NPI,
		Name:         r.Name,
		Specialty:    r.Specialty.String,
		Setting:      r.Setting.String,
		City:         r.City,
		State:        models.NormalizeState(r.State),
		FactorValues: make(models.FactorValues, 6),
	}
	for code, v := range map[models.FactorCode]sql.NullFloat64{
		models.FactorA: r.FactorA,
		models.FactorB: r.FactorB,
		models.FactorC: r.FactorC,
		models.FactorD: r.FactorD,
		models.FactorE: r.FactorE,
		models.FactorF: r.FactorF,
	} {
		if v.Valid {
			p.FactorValues[code] = v.Float64
		}
	}
	if r.UpdatedAt.Valid {
		p.UpdatedAt = r.UpdatedAt.Time.UTC().Format(time.RFC3339)
	}
	return p
}

func (r *ProviderRepository) ListProviders(ctx context.Context, filter ListFilter) ([]models.Provider, error) {
	var (
		where []string
		args  []interface{}
	)
	if state := models.NormalizeState(filter.State); state != "" && state != models.AllStates {
		where = append(where, "UPPER(state) = ?")
		args = append(args, state)
	}
	if len(filter.IDs) > 0 {
		where = append(where, "id IN (?)")
		args = append(args, filter.IDs)
	}

	query := "SELECT " + providerColumns + " FROM providers"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("build provider list query: %w", err)
	}

	var rows []providerRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}

	providers := make([]models.Provider, 0, len(rows))
	for _, row := range rows {
		providers = append(providers, row.toModel())
	}
	return providers, nil
}

func (r *ProviderRepository) GetProvider(ctx context.Context, id string) (models.Provider, error) {
	var row providerRow
	err := r.db.GetContext(ctx, &row, "SELECT "+providerColumns+" FROM providers WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Provider{}, fmt.Errorf("%w: %s", ErrProviderNotFound, id)
	}
	if err != nil {
		return models.Provider{}, fmt.Errorf("get provider %s: %w", id, err)
	}
	return row.toModel(), nil
}

// TripNotes returns a provider's visit notes, newest first.
func (r *ProviderRepository) TripNotes(ctx context.Context, providerID string) ([]models.TripNote, error) {
	notes := []models.TripNote{}
	err := r.db.SelectContext(ctx, &notes, `
		SELECT provider_id, to_char(visit_date, 'YYYY-MM-DD') AS visit_date, summary, sentiment, follow_up
		FROM trip_notes
		WHERE provider_id = $1
		ORDER BY visit_date DESC`, providerID)
	if err != nil {
		return nil, fmt.Errorf("trip notes for %s: %w", providerID, err)
	}
	return notes, nil
}

// Utilization returns monthly usage, oldest first.
func (r *ProviderRepository) Utilization(ctx context.Context, providerID string) ([]models.UtilizationMonth, error) {
	months := []models.UtilizationMonth{}
	err := r.db.SelectContext(ctx, &months, `
		SELECT to_char(month, 'YYYY-MM') AS month, intermittent, indwelling
		FROM provider_utilization
		WHERE provider_id = $1
		ORDER BY month ASC`, providerID)
	if err != nil {
		return nil, fmt.Errorf("utilization for %s: %w", providerID, err)
	}
	return months, nil
}
