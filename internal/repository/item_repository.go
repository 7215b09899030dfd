package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/event-seat-booking/internal/model"
)

// ItemRepo provides read access to the items table holding events and
// meetups.
type ItemRepo struct {
	db *sql.DB
}

// NewItemRepo returns an ItemRepo bound to db.
func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{db: db} }

const itemColumns = `id, type, title, description, location, start_date, max_participants, ticket_price_cents, created_at`

func scanItem(s rowScanner) (*model.Item, error) {
	var (
		it         model.Item
		desc, loc  sql.NullString
		maxP       sql.NullInt64
		priceCents sql.NullInt64
	)
	if err := s.Scan(&it.ID, &it.Type, &it.Title, &desc, &loc, &it.StartDate, &maxP, &priceCents, &it.CreatedAt); err != nil {
		return nil, err
	}
	it.Description = desc.String
	it.Location = loc.String
	if maxP.Valid {
		v := int(maxP.Int64)
		it.MaxParticipants = &v
	}
	if priceCents.Valid {
		v := priceCents.Int64
		it.TicketPriceCents = &v
	}
	return &it, nil
}

func itemConditions(f model.ItemFilter) (string, []any) {
	where := []string{}
	args := []any{}
	switch strings.ToLower(f.When) {
	case "any":
	default:
		where = append(where, "start_date >= UTC_TIMESTAMP()")
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Query != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(location) LIKE ?)")
		like := "%" + strings.ToLower(f.Query) + "%"
		args = append(args, like, like)
	}
	if len(where) == 0 {
		return "1=1", args
	}
	return strings.Join(where, " AND "), args
}

// ListItems returns the items matching f ordered by start date.  Pagination
// applies only when both Page and PageSize are positive.
func (r *ItemRepo) ListItems(ctx context.Context, f model.ItemFilter) ([]model.Item, error) {
	cond, args := itemConditions(f)
	q := `SELECT ` + itemColumns + ` FROM items WHERE ` + cond + ` ORDER BY start_date ASC, id ASC`
	if f.Page > 0 && f.PageSize > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, f.PageSize, (f.Page-1)*f.PageSize)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountItems returns how many items match f, ignoring pagination.
func (r *ItemRepo) CountItems(ctx context.Context, f model.ItemFilter) (int64, error) {
	cond, args := itemConditions(f)
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items WHERE `+cond, args...).Scan(&total)
	return total, err
}

// GetItem returns one item or model.ErrNotFound.
func (r *ItemRepo) GetItem(ctx context.Context, id string) (*model.Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return it, err
}
