// Package postgres keeps containers as documents: one row per container with
// the ledger encoded as msgpack in the contents column.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"

	"fattybrewing"
	brewmsgpack "fattybrewing/msgpack"
)

//go:embed migrations/*.sql
var migrations embed.FS

var _ fattybrewing.Store = (*Store)(nil)

type Store struct{ pool *pgxpool.Pool }

func New(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

// Open applies migrations and connects a pool.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if err := Migrate(ctx, dsn); err != nil {
		return nil, fmt.Errorf("postgres migrations: %w", err)
	}
	pool, err := Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return New(pool), nil
}

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Migrate brings the schema up to date.
func Migrate(ctx context.Context, dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) Save(ctx context.Context, c *fattybrewing.Container) (string, error) {
	st := c.Snapshot()
	id := st.ID
	if id == "" {
		id = fattybrewing.GenerateUUID()
	}
	contents, err := brewmsgpack.MarshalEntries(st.Contents)
	if err != nil {
		return "", fmt.Errorf("encode contents of %s: %w", id, err)
	}

	if _, err := s.pool.Exec(ctx, `
		INSERT INTO containers (id, name, container_type, size_amount, size_unit, size_category, full, contents, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			container_type = EXCLUDED.container_type,
			size_amount = EXCLUDED.size_amount,
			size_unit = EXCLUDED.size_unit,
			size_category = EXCLUDED.size_category,
			full = EXCLUDED.full,
			contents = EXCLUDED.contents,
			updated_at = now()
	`, id, st.Name, string(st.Kind), st.Size.Amount.String(), st.Size.Unit.Symbol,
		st.Size.Unit.Category.String(), st.Full, contents); err != nil {
		return "", fmt.Errorf("save container %s: %w", id, err)
	}
	if st.ID == "" {
		c.SetID(id)
	}
	return id, nil
}

const selectContainer = `
	SELECT id, name, container_type, size_amount, size_unit, size_category, full, contents
	FROM containers`

func (s *Store) Load(ctx context.Context, id string) (*fattybrewing.Container, error) {
	row := s.pool.QueryRow(ctx, selectContainer+` WHERE id = $1`, id)
	st, err := scanState(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &fattybrewing.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load container %s: %w", id, err)
	}
	return fattybrewing.Restore(st)
}

func (s *Store) List(ctx context.Context) ([]fattybrewing.State, error) {
	return s.Find(ctx, "")
}

func (s *Store) Find(ctx context.Context, pattern string) ([]fattybrewing.State, error) {
	rows, err := s.pool.Query(ctx, selectContainer+`
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name, id`, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fattybrewing.State
	for rows.Next() {
		st, err := scanState(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM containers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &fattybrewing.NotFoundError{ID: id}
	}
	return nil
}

func scanState(row pgx.Row) (fattybrewing.State, error) {
	var (
		st                           fattybrewing.State
		kind, amount, unit, category string
		contents                     []byte
	)
	if err := row.Scan(&st.ID, &st.Name, &kind, &amount, &unit, &category, &st.Full, &contents); err != nil {
		return fattybrewing.State{}, err
	}
	st.Kind = fattybrewing.Kind(kind)
	u, err := fattybrewing.LookupUnit(unit, category)
	if err != nil {
		return fattybrewing.State{}, fmt.Errorf("container %s: %w", st.ID, err)
	}
	size, err := decimal.NewFromString(amount)
	if err != nil {
		return fattybrewing.State{}, fmt.Errorf("container %s size: %w", st.ID, err)
	}
	st.Size = fattybrewing.Quantity{Amount: size, Unit: u}
	if len(contents) > 0 {
		if st.Contents, err = brewmsgpack.UnmarshalEntries(contents); err != nil {
			return fattybrewing.State{}, fmt.Errorf("container %s contents: %w", st.ID, err)
		}
	}
	return st, nil
}
