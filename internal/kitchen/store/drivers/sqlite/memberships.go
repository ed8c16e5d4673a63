package sqlite

import (
	"context"
	"strings"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
)

type membershipsRepo struct {
	db dbtx
}

func (r *membershipsRepo) GetMembership(ctx context.Context, userID, resourceID string) (domain.Membership, error) {
	var (
		m       domain.Membership
		canEdit int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, resource_id, can_edit, created_at
		 FROM memberships WHERE user_id = ? AND resource_id = ?`,
		userID, resourceID).Scan(&m.UserID, &m.ResourceID, &canEdit, &m.CreatedAt)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	m.CanEdit = canEdit != 0
	return m, nil
}

func (r *membershipsRepo) HasEditAccess(ctx context.Context, userID, resourceID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM memberships
		 WHERE user_id = ? AND resource_id = ? AND can_edit = 1`,
		userID, resourceID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *membershipsRepo) ListMembers(ctx context.Context, resourceID, excludingUserID string) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.user_id, u.name, m.can_edit
		 FROM memberships m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.resource_id = ? AND m.user_id != ?
		 ORDER BY m.created_at`,
		resourceID, excludingUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		var (
			m       domain.Member
			canEdit int
		)
		if err := rows.Scan(&m.UserID, &m.Name, &canEdit); err != nil {
			return nil, err
		}
		m.CanEdit = canEdit != 0
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *membershipsRepo) CountMembers(ctx context.Context, resourceID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM memberships WHERE resource_id = ?`, resourceID).Scan(&count)
	return count, err
}

func (r *membershipsRepo) CreateMembership(ctx context.Context, m domain.Membership) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO memberships (user_id, resource_id, can_edit, created_at)
		 VALUES (?, ?, ?, ?)`,
		m.UserID, m.ResourceID, boolToInt(m.CanEdit), m.CreatedAt)
	return mapConstraint(err)
}

func (r *membershipsRepo) UpdateMembershipBulk(ctx context.Context, resourceID string, userIDs []string, canEdit bool) error {
	if len(userIDs) == 0 {
		return nil
	}

	query := `UPDATE memberships SET can_edit = ?
		 WHERE resource_id = ? AND user_id IN (` + placeholders(len(userIDs)) + `)`
	args := append([]any{boolToInt(canEdit), resourceID}, toAnySlice(userIDs)...)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *membershipsRepo) DeleteMemberships(ctx context.Context, resourceID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	query := `DELETE FROM memberships
		 WHERE resource_id = ? AND user_id IN (` + placeholders(len(userIDs)) + `)`
	args := append([]any{resourceID}, toAnySlice(userIDs)...)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *membershipsRepo) DeleteMembership(ctx context.Context, userID, resourceID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE user_id = ? AND resource_id = ?`,
		userID, resourceID)
	return err
}

func (r *membershipsRepo) DeleteByResource(ctx context.Context, resourceID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE resource_id = ?`, resourceID)
	return err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toAnySlice(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
