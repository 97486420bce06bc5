package fattybrewing

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
)

//go:embed migrations/sqlite/*.sql
var sqliteMigrations embed.FS

// SQLiteStore keeps containers in two tables: one row per container and one
// row per ledger entry, ordered by position.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// One connection, so ":memory:" databases are shared and writes serialize.
	db.SetMaxOpenConns(1)
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	fsys, err := fs.Sub(sqliteMigrations, "migrations/sqlite")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, fsys)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, c *Container) (string, error) {
	st := c.Snapshot()
	id := st.ID
	if id == "" {
		id = GenerateUUID()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO containers (id, name, container_type, size_amount, size_unit, size_category, full, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			container_type = excluded.container_type,
			size_amount = excluded.size_amount,
			size_unit = excluded.size_unit,
			size_category = excluded.size_category,
			full = excluded.full,
			updated_at = excluded.updated_at
	`, id, st.Name, string(st.Kind), st.Size.Amount, st.Size.Unit.Symbol, st.Size.Unit.Category.String(),
		st.Full, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("save container %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM container_contents WHERE container_id = ?`, id); err != nil {
		return "", fmt.Errorf("save container %s: %w", id, err)
	}
	for pos, e := range st.Contents {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO container_contents
				(container_id, position, substance, amount, unit, unit_category, content_type, temp_degrees, temp_unit, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, pos, e.Substance, e.Quantity.Amount, e.Quantity.Unit.Symbol, e.Quantity.Unit.Category.String(),
			string(e.Type), e.Temperature.Degrees, e.Temperature.Unit.Symbol, e.UpdatedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return "", fmt.Errorf("save container %s entry %d: %w", id, pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	if st.ID == "" {
		c.SetID(id)
	}
	return id, nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*Container, error) {
	st, err := s.loadState(ctx, id)
	if err != nil {
		return nil, err
	}
	return Restore(st)
}

func (s *SQLiteStore) List(ctx context.Context) ([]State, error) {
	return s.Find(ctx, "")
}

func (s *SQLiteStore) Find(ctx context.Context, pattern string) ([]State, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM containers
		WHERE name LIKE '%' || ? || '%'
		ORDER BY name, id
	`, pattern)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]State, 0, len(ids))
	for _, id := range ids {
		st, err := s.loadState(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM container_contents WHERE container_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM containers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{ID: id}
	}
	return tx.Commit()
}

func (s *SQLiteStore) loadState(ctx context.Context, id string) (State, error) {
	var (
		st                     State
		kind, symbol, category string
		sizeAmount             decimal.Decimal
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, container_type, size_amount, size_unit, size_category, full
		FROM containers WHERE id = ?
	`, id).Scan(&st.ID, &st.Name, &kind, &sizeAmount, &symbol, &category, &st.Full)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return State{}, fmt.Errorf("load container %s: %w", id, err)
	}
	st.Kind = Kind(kind)
	unit, err := LookupUnit(symbol, category)
	if err != nil {
		return State{}, fmt.Errorf("load container %s: %w", id, err)
	}
	st.Size = Quantity{Amount: sizeAmount, Unit: unit}

	rows, err := s.db.QueryContext(ctx, `
		SELECT substance, amount, unit, unit_category, content_type, temp_degrees, temp_unit, updated_at
		FROM container_contents
		WHERE container_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return State{}, fmt.Errorf("load contents of %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e                                          Entry
			amount, degrees                            decimal.Decimal
			unitSymbol, unitCategory, ctype, tempUnit string
			updatedAt                                  string
		)
		if err := rows.Scan(&e.Substance, &amount, &unitSymbol, &unitCategory, &ctype, &degrees, &tempUnit, &updatedAt); err != nil {
			return State{}, err
		}
		u, err := LookupUnit(unitSymbol, unitCategory)
		if err != nil {
			return State{}, fmt.Errorf("load contents of %s: %w", id, err)
		}
		tu, err := temperatureUnit(tempUnit)
		if err != nil {
			return State{}, fmt.Errorf("load contents of %s: %w", id, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return State{}, fmt.Errorf("load contents of %s: %w", id, err)
		}
		e.Quantity = Quantity{Amount: amount, Unit: u}
		e.Type = ParseContentType(ctype)
		e.Temperature = Temperature{Degrees: degrees, Unit: tu}
		e.UpdatedAt = ts
		st.Contents = append(st.Contents, e)
	}
	return st, rows.Err()
}
