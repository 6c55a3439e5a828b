package vehicles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/dbx"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, dealer_id, provider_connection_id, provider_id, provider_type, vin, year, make, model, trim,
	mileage, price, condition, body_type, transmission, fuel_type, exterior_color, interior_color, description,
	features, photos, status, created_at, updated_at, last_synced_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanVehicle(s scanner) (*models.Vehicle, error) {
	v := &models.Vehicle{}
	var features, photos []byte
	err := s.Scan(&v.ID, &v.DealerID, &v.ProviderConnectionID, &v.ProviderID, &v.ProviderType, &v.VIN, &v.Year,
		&v.Make, &v.Model, &v.Trim, &v.Mileage, &v.Price, &v.Condition, &v.BodyType, &v.Transmission, &v.FuelType,
		&v.ExteriorColor, &v.InteriorColor, &v.Description, &features, &photos, &v.Status,
		&v.CreatedAt, &v.UpdatedAt, &v.LastSyncedAt)
	if err != nil {
		return nil, err
	}
	if err := unmarshalList(features, &v.Features); err != nil {
		return nil, err
	}
	if err := unmarshalList(photos, &v.Photos); err != nil {
		return nil, err
	}
	return v, nil
}

func unmarshalList(b []byte, out *[]string) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, out)
}

func marshalList(in []string) (string, error) {
	if in == nil {
		in = []string{}
	}
	b, err := json.Marshal(in)
	return string(b), err
}

// Upsert relies on ON CONFLICT for atomicity; xmax = 0 only on a freshly
// inserted row.
func (r *PostgresRepository) Upsert(ctx context.Context, v *models.Vehicle) (*models.Vehicle, bool, error) {
	features, err := marshalList(v.Features)
	if err != nil {
		return nil, false, err
	}
	photos, err := marshalList(v.Photos)
	if err != nil {
		return nil, false, err
	}

	query :=
		`INSERT INTO vehicles (` + selectColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
		         $20, $21, $22, $23, $24, $25)
		 ON CONFLICT (dealer_id, provider_id) DO UPDATE SET
		     provider_connection_id = EXCLUDED.provider_connection_id,
		     provider_type = EXCLUDED.provider_type,
		     vin = EXCLUDED.vin,
		     year = EXCLUDED.year,
		     make = EXCLUDED.make,
		     model = EXCLUDED.model,
		     trim = EXCLUDED.trim,
		     mileage = EXCLUDED.mileage,
		     price = EXCLUDED.price,
		     condition = EXCLUDED.condition,
		     body_type = EXCLUDED.body_type,
		     transmission = EXCLUDED.transmission,
		     fuel_type = EXCLUDED.fuel_type,
		     exterior_color = EXCLUDED.exterior_color,
		     interior_color = EXCLUDED.interior_color,
		     description = EXCLUDED.description,
		     features = EXCLUDED.features,
		     photos = EXCLUDED.photos,
		     status = EXCLUDED.status,
		     updated_at = EXCLUDED.updated_at,
		     last_synced_at = EXCLUDED.last_synced_at
		 RETURNING id, created_at, (xmax = 0) AS inserted`

	out := v.Clone()
	var inserted bool
	err = r.db.QueryRowContext(ctx, query,
		v.ID, v.DealerID, v.ProviderConnectionID, v.ProviderID, v.ProviderType, v.VIN, v.Year, v.Make, v.Model,
		v.Trim, v.Mileage, v.Price, v.Condition, v.BodyType, v.Transmission, v.FuelType, v.ExteriorColor,
		v.InteriorColor, v.Description, features, photos, v.Status, v.CreatedAt, v.UpdatedAt, v.LastSyncedAt,
	).Scan(&out.ID, &out.CreatedAt, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("db error: %w", err)
	}

	return out, inserted, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	query := `SELECT ` + selectColumns + ` FROM vehicles WHERE id = $1`

	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func whereClause(f models.VehicleFilter) (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 6)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.DealerID != "" {
		add("dealer_id = $%d", f.DealerID)
	}
	if f.ConnectionID != "" {
		add("provider_connection_id = $%d", f.ConnectionID)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(make ILIKE $%d OR model ILIKE $%d OR vin ILIKE $%d)", n, n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PostgresRepository) List(ctx context.Context, f models.VehicleFilter) ([]*models.Vehicle, error) {
	where, args := whereClause(f)
	args = append(args, limitOf(f), f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM vehicles%s ORDER BY updated_at DESC, id LIMIT $%d OFFSET $%d`,
		selectColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Count(ctx context.Context, f models.VehicleFilter) (int, error) {
	where, args := whereClause(f)

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	ok, err := dbx.Affected(res)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}
