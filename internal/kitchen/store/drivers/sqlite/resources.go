package sqlite

import (
	"context"
	"strings"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store"
)

type resourcesRepo struct {
	db dbtx
}

const resourceColumns = `id, kind, owner_id, title, color, payload, created_at, updated_at`

func (r *resourcesRepo) GetResource(ctx context.Context, id string, kind domain.Kind) (domain.Resource, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = ? AND kind = ?`,
		id, string(kind))
	return scanResource(row)
}

func (r *resourcesRepo) ListResourcesForUser(
	ctx context.Context,
	kind domain.Kind,
	userID string,
	f store.ResourceFilter,
) ([]domain.Resource, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT r.id, r.kind, r.owner_id, r.title, r.color, r.payload, r.created_at, r.updated_at
		FROM resources r
		JOIN memberships m ON m.resource_id = r.id
		WHERE m.user_id = ? AND r.kind = ?`)
	args := []any{userID, string(kind)}

	if f.OwnerOnly {
		sb.WriteString(` AND r.owner_id = ?`)
		args = append(args, userID)
	}

	// Recipe-only filters live in the JSON payload.
	if f.Favourite != nil {
		sb.WriteString(` AND json_extract(r.payload, '$.favourite') = ?`)
		args = append(args, boolToInt(*f.Favourite))
	}
	if f.Serves != nil {
		sb.WriteString(` AND json_extract(r.payload, '$.serves') >= ?`)
		args = append(args, *f.Serves)
	}
	if f.MaxCookingTime != nil {
		sb.WriteString(` AND json_extract(r.payload, '$.cookingTime') <= ?`)
		args = append(args, *f.MaxCookingTime)
	}
	if f.MaxCost != nil {
		sb.WriteString(` AND json_extract(r.payload, '$.cost') <= ?`)
		args = append(args, *f.MaxCost)
	}

	sb.WriteString(` ORDER BY r.created_at DESC`)

	if f.PageSize > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, f.PageSize)
		if f.Page > 1 {
			sb.WriteString(` OFFSET ?`)
			args = append(args, (f.Page-1)*f.PageSize)
		}
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resources := []domain.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *resourcesRepo) CreateResource(ctx context.Context, res domain.Resource) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO resources (id, kind, owner_id, title, color, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, string(res.Kind), res.OwnerID, res.Title, res.Color,
		string(res.Payload), res.CreatedAt, res.UpdatedAt)
	return mapConstraint(err)
}

func (r *resourcesRepo) UpdateResource(ctx context.Context, res domain.Resource) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE resources SET title = ?, color = ?, payload = ?, updated_at = ? WHERE id = ?`,
		res.Title, res.Color, string(res.Payload), res.UpdatedAt, res.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *resourcesRepo) DeleteResource(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *resourcesRepo) IsOwner(ctx context.Context, userID, resourceID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM resources WHERE id = ? AND owner_id = ?`,
		resourceID, userID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanResource(row rowScanner) (domain.Resource, error) {
	var (
		res     domain.Resource
		kind    string
		payload string
	)
	err := row.Scan(&res.ID, &kind, &res.OwnerID, &res.Title, &res.Color,
		&payload, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return domain.Resource{}, mapNotFound(err)
	}
	res.Kind = domain.Kind(kind)
	res.Payload = []byte(payload)
	return res, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
