package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/port/outbound"
)

// GrantRepo implements outbound.GrantRecordRepository using SQLite.
type GrantRepo struct {
	db *sql.DB
}

var _ outbound.GrantRecordRepository = (*GrantRepo)(nil)

// NewGrantRepo creates a new GrantRepo backed by the given store.
func NewGrantRepo(store *Store) *GrantRepo {
	return &GrantRepo{db: store.DB}
}

// Create inserts a new grant record row.
func (r *GrantRepo) Create(ctx context.Context, rec model.GrantRecord) error {
	const q = `INSERT INTO grant_records
		(id, trigger_id, player_id, external_user_id, role_name, result, detail, requested_by, channel_id, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`

	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.TriggerID, rec.PlayerID, rec.ExternalUserID,
		rec.RoleName, string(rec.Result), rec.Detail,
		rec.RequestedBy, rec.ChannelID, rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting grant record: %w", err)
	}
	return nil
}

// allowedGrantOrderColumns defines valid columns for ORDER BY to prevent SQL injection.
var allowedGrantOrderColumns = map[string]bool{
	"created_at": true, "player_id": true, "result": true,
	"requested_by": true, "role_name": true,
}

// List returns a paginated, filtered list of grant records.
func (r *GrantRepo) List(ctx context.Context, filter outbound.GrantFilter, page outbound.PageRequest) (outbound.PageResult[model.GrantRecord], error) {
	where, args := buildGrantWhere(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM grant_records"+where, args...).Scan(&total); err != nil {
		return outbound.PageResult[model.GrantRecord]{}, fmt.Errorf("counting grant records: %w", err)
	}

	orderCol := "created_at"
	if page.OrderBy != "" {
		if !allowedGrantOrderColumns[page.OrderBy] {
			return outbound.PageResult[model.GrantRecord]{}, fmt.Errorf("%w: order column %q", outbound.ErrInvalidPage, page.OrderBy)
		}
		orderCol = page.OrderBy
	}
	dir := "ASC"
	if page.Desc {
		dir = "DESC"
	}
	size := page.Size
	if size <= 0 {
		size = 20
	}
	offset := page.Page * size

	dataQ := fmt.Sprintf(`SELECT id, trigger_id, player_id, external_user_id, role_name, result, detail, requested_by, channel_id, created_at
		FROM grant_records%s ORDER BY %s %s, id %s LIMIT ? OFFSET ?`, where, orderCol, dir, dir)

	rows, err := r.db.QueryContext(ctx, dataQ, append(args, size, offset)...)
	if err != nil {
		return outbound.PageResult[model.GrantRecord]{}, fmt.Errorf("listing grant records: %w", err)
	}
	defer rows.Close()

	var items []model.GrantRecord
	for rows.Next() {
		rec, err := scanGrantRecord(rows)
		if err != nil {
			return outbound.PageResult[model.GrantRecord]{}, fmt.Errorf("scanning grant record: %w", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return outbound.PageResult[model.GrantRecord]{}, fmt.Errorf("iterating grant records: %w", err)
	}

	return outbound.PageResult[model.GrantRecord]{
		Items:      items,
		TotalCount: total,
		Page:       page.Page,
		Size:       size,
	}, nil
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGrantRecord(s rowScanner) (model.GrantRecord, error) {
	var rec model.GrantRecord
	var result string

	err := s.Scan(
		&rec.ID, &rec.TriggerID, &rec.PlayerID, &rec.ExternalUserID,
		&rec.RoleName, &result, &rec.Detail,
		&rec.RequestedBy, &rec.ChannelID, &rec.CreatedAt,
	)
	if err != nil {
		return model.GrantRecord{}, err
	}
	rec.Result = model.GrantResultKind(result)
	return rec, nil
}

func buildGrantWhere(f outbound.GrantFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.PlayerID != "" {
		clauses = append(clauses, "player_id = ?")
		args = append(args, f.PlayerID)
	}
	if f.ExternalUserID != "" {
		clauses = append(clauses, "external_user_id = ?")
		args = append(args, f.ExternalUserID)
	}
	if f.Result != "" {
		clauses = append(clauses, "result = ?")
		args = append(args, string(f.Result))
	}
	if f.RequestedBy != "" {
		clauses = append(clauses, "requested_by = ?")
		args = append(args, f.RequestedBy)
	}
	if f.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, f.Since.UTC())
	}
	if f.Until != nil {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, f.Until.UTC())
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
