package listings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

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

const selectColumns = `id, vehicle_id, facebook_title, facebook_description, craigslist_title, craigslist_description,
	base_title, base_description, keywords, generated_at`

func (r *PostgresRepository) Save(ctx context.Context, l *models.Listing) error {
	keywords := l.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	kw, err := json.Marshal(keywords)
	if err != nil {
		return err
	}

	query :=
		`INSERT INTO listings (` + selectColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		     facebook_title = EXCLUDED.facebook_title,
		     facebook_description = EXCLUDED.facebook_description,
		     craigslist_title = EXCLUDED.craigslist_title,
		     craigslist_description = EXCLUDED.craigslist_description,
		     base_title = EXCLUDED.base_title,
		     base_description = EXCLUDED.base_description,
		     keywords = EXCLUDED.keywords,
		     generated_at = EXCLUDED.generated_at`

	_, err = r.db.ExecContext(ctx, query, l.ID, l.VehicleID, l.Facebook.Title, l.Facebook.Description,
		l.Craigslist.Title, l.Craigslist.Description, l.Base.Title, l.Base.Description, string(kw), l.GeneratedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) getBy(ctx context.Context, query string, arg any) (*models.Listing, error) {
	l := &models.Listing{}
	var kw []byte
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&l.ID, &l.VehicleID, &l.Facebook.Title, &l.Facebook.Description,
		&l.Craigslist.Title, &l.Craigslist.Description, &l.Base.Title, &l.Base.Description, &kw, &l.GeneratedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(kw) > 0 {
		if err := json.Unmarshal(kw, &l.Keywords); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}
	return l, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Listing, error) {
	return r.getBy(ctx, `SELECT `+selectColumns+` FROM listings WHERE id = $1`, id)
}

func (r *PostgresRepository) LatestByVehicle(ctx context.Context, vehicleID string) (*models.Listing, error) {
	return r.getBy(ctx, `SELECT `+selectColumns+` FROM listings WHERE vehicle_id = $1
		ORDER BY generated_at DESC LIMIT 1`, vehicleID)
}
