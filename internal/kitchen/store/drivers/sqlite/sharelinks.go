package sqlite

import (
	"context"
	"time"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
)

type shareLinksRepo struct {
	db dbtx
}

func (r *shareLinksRepo) CreateShareLink(ctx context.Context, l domain.ShareLink) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO share_links (code, token, created_at) VALUES (?, ?, ?)`,
		l.Code, l.Token, l.CreatedAt)
	return mapConstraint(err)
}

func (r *shareLinksRepo) GetShareLink(ctx context.Context, code string) (domain.ShareLink, error) {
	var l domain.ShareLink
	err := r.db.QueryRowContext(ctx,
		`SELECT code, token, created_at FROM share_links WHERE code = ?`,
		code).Scan(&l.Code, &l.Token, &l.CreatedAt)
	if err != nil {
		return domain.ShareLink{}, mapNotFound(err)
	}
	return l, nil
}

func (r *shareLinksRepo) DeleteShareLinksBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM share_links WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
