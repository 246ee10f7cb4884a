package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// MySQLStore keeps each collection in its own kv_<collection> table with an
// AUTO_INCREMENT position column so ReadAll preserves insertion order.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// TableName maps a collection name onto its backing table. Collection names
// may carry mixed case ("efiBankSettings"); everything outside [a-z0-9] is
// folded to underscores.
func TableName(collection string) string {
	var b strings.Builder
	b.WriteString("kv_")
	for _, r := range strings.ToLower(collection) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func (s *MySQLStore) ReadAll(ctx context.Context, collection string) ([]Record, error) {
	query := fmt.Sprintf(`SELECT id, data FROM %s ORDER BY position`, TableName(collection))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Data); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (s *MySQLStore) ReadByID(ctx context.Context, collection, id string) (Record, error) {
	query := fmt.Sprintf(`SELECT id, data FROM %s WHERE id = ?`, TableName(collection))

	var rec Record
	err := s.db.QueryRowContext(ctx, query, id).Scan(&rec.ID, &rec.Data)
	if err == sql.ErrNoRows {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}

	return rec, nil
}

func (s *MySQLStore) Append(ctx context.Context, collection string, rec Record) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, data) VALUES (?, ?)`, TableName(collection))
	_, err := s.db.ExecContext(ctx, query, rec.ID, []byte(rec.Data))
	return err
}

func (s *MySQLStore) Replace(ctx context.Context, collection, id string, rec Record) error {
	// UPDATE alone cannot distinguish "missing" from "unchanged" via
	// RowsAffected, so existence is checked first.
	var exists int
	checkQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = ?`, TableName(collection))
	if err := s.db.QueryRowContext(ctx, checkQuery, id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	query := fmt.Sprintf(`UPDATE %s SET data = ? WHERE id = ?`, TableName(collection))
	_, err := s.db.ExecContext(ctx, query, []byte(rec.Data), id)
	return err
}

func (s *MySQLStore) Delete(ctx context.Context, collection, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, TableName(collection))
	_, err := s.db.ExecContext(ctx, query, id)
	return err
}
