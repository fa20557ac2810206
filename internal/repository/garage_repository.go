package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions

	"github.com/iliyamo/garage-bay-booking/internal/model"
)

// ErrGarageNotFound is returned when a garage lookup fails.
var ErrGarageNotFound = errors.New("garage not found")

// GarageRepo provides methods to create and retrieve garages.  Garages
// are created at setup time and never mutated afterwards, so the repo
// intentionally exposes no update or delete.
type GarageRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewGarageRepo constructs a GarageRepo with the given DB handle.
func NewGarageRepo(db *sql.DB) *GarageRepo { return &GarageRepo{db: db} }

// GetByID retrieves a garage by its ID.  It returns ErrGarageNotFound
// when no row is found.
func (r *GarageRepo) GetByID(ctx context.Context, id uint64) (*model.Garage, error) {
	const q = `SELECT id, name, bay_count, created_at FROM garages WHERE id = ?`
	var g model.Garage
	err := r.db.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.Name, &g.BayCount, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGarageNotFound
		}
		return nil, err
	}
	return &g, nil
}

// List returns all garages ordered by id.  The result is small and
// immutable after setup, so it is safe to cache at the HTTP layer.
func (r *GarageRepo) List(ctx context.Context) ([]model.Garage, error) {
	const q = `SELECT id, name, bay_count, created_at FROM garages ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Garage, 0)
	for rows.Next() {
		var g model.Garage
		if err := rows.Scan(&g.ID, &g.Name, &g.BayCount, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new garage and populates the generated ID.  Only the
// migration seed and setup tooling call this.
func (r *GarageRepo) Create(ctx context.Context, g *model.Garage) error {
	const q = `INSERT INTO garages (name, bay_count) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, g.Name, g.BayCount)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}
