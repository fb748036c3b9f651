package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Aquilabot/SmartPC-API/internal/models"
)

const productColumns = `id, name, type, segment, price, currency, specifications, brand, model,
  image_url, description, source_url, in_stock, performance_score, gaming_score, productivity_score`

const presetColumns = `id, name, description, device_type, segment, min_budget, max_budget,
  component_map, total_price, performance_score, reasoning, is_active, priority, image_url`

// PostgresStore keeps the catalog in Postgres through the pgx driver.
type PostgresStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  segment TEXT NOT NULL DEFAULT '',
  price DOUBLE PRECISION NOT NULL,
  currency TEXT NOT NULL DEFAULT 'PLN',
  specifications JSONB NOT NULL DEFAULT '{}'::jsonb,
  brand TEXT NOT NULL DEFAULT '',
  model TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  source_url TEXT NOT NULL DEFAULT '',
  in_stock BOOLEAN NOT NULL DEFAULT TRUE,
  performance_score DOUBLE PRECISION,
  gaming_score DOUBLE PRECISION,
  productivity_score DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS idx_products_type ON products (type);

CREATE TABLE IF NOT EXISTS presets (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  device_type TEXT NOT NULL,
  segment TEXT NOT NULL,
  min_budget DOUBLE PRECISION,
  max_budget DOUBLE PRECISION,
  component_map JSONB NOT NULL DEFAULT '{}'::jsonb,
  total_price DOUBLE PRECISION NOT NULL,
  performance_score DOUBLE PRECISION,
  reasoning TEXT NOT NULL DEFAULT '',
  is_active BOOLEAN NOT NULL DEFAULT TRUE,
  priority INTEGER NOT NULL DEFAULT 0,
  image_url TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_presets_device_segment ON presets (device_type, segment);
`)
		if err != nil {
			s.schemaErr = fmt.Errorf("%w: ensure schema: %w", ErrUnavailable, err)
		}
	})
	return s.schemaErr
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComponent(row rowScanner) (models.Component, error) {
	var (
		c     models.Component
		specs []byte
		perf  sql.NullFloat64
		game  sql.NullFloat64
		prod  sql.NullFloat64
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Type, &c.Segment, &c.Price, &c.Currency, &specs,
		&c.Brand, &c.Model, &c.ImageURL, &c.Description, &c.SourceURL, &c.InStock,
		&perf, &game, &prod,
	)
	if err != nil {
		return models.Component{}, err
	}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &c.Specifications); err != nil {
			return models.Component{}, fmt.Errorf("decode specifications of %s: %w", c.ID, err)
		}
	}
	c.PerformanceScore = nullable(perf)
	c.GamingScore = nullable(game)
	c.ProductivityScore = nullable(prod)
	return c, nil
}

func scanPreset(row rowScanner) (models.Preset, error) {
	var (
		p        models.Preset
		slots    []byte
		minB     sql.NullFloat64
		maxB     sql.NullFloat64
		perf     sql.NullFloat64
		priority int64
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.DeviceType, &p.Segment, &minB, &maxB,
		&slots, &p.TotalPrice, &perf, &p.Reasoning, &p.IsActive, &priority, &p.ImageURL,
	)
	if err != nil {
		return models.Preset{}, err
	}
	if len(slots) > 0 {
		if err := json.Unmarshal(slots, &p.ComponentMap); err != nil {
			return models.Preset{}, fmt.Errorf("decode component map of %s: %w", p.ID, err)
		}
	}
	p.MinBudget = nullable(minB)
	p.MaxBudget = nullable(maxB)
	p.PerformanceScore = nullable(perf)
	p.Priority = int(priority)
	return p, nil
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return models.Float(v.Float64)
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func unavailable(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}

// Resolve reads every id with a single statement so the result is one snapshot.
func (s *PostgresStore) Resolve(ctx context.Context, ids []string) (map[string]models.Component, error) {
	out := make(map[string]models.Component, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, unavailable("resolve components", err)
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, unavailable("resolve components", err)
		}
		out[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("resolve components", err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (models.Component, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return models.Component{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	c, err := scanComponent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Component{}, ErrNotFound
	}
	if err != nil {
		return models.Component{}, unavailable("get component", err)
	}
	return c, nil
}

func (s *PostgresStore) List(ctx context.Context, filter ProductFilter) ([]models.Component, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	var (
		where []string
		args  []any
	)
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Segment != "" {
		args = append(args, filter.Segment)
		where = append(where, fmt.Sprintf("segment = $%d", len(args)))
	}
	if filter.InStock != nil {
		args = append(args, *filter.InStock)
		where = append(where, fmt.Sprintf("in_stock = $%d", len(args)))
	}
	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list components", err)
	}
	defer rows.Close()
	out := make([]models.Component, 0, 32)
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, unavailable("list components", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list components", err)
	}
	return out, nil
}

func (s *PostgresStore) Put(ctx context.Context, c models.Component) error {
	if err := validateComponent(c); err != nil {
		return err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	specs, err := json.Marshal(c.Specifications)
	if err != nil {
		return fmt.Errorf("encode specifications of %s: %w", c.ID, err)
	}
	if c.Currency == "" {
		c.Currency = models.DefaultCurrency
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO products (`+productColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
ON CONFLICT (id)
DO UPDATE SET name=EXCLUDED.name, type=EXCLUDED.type, segment=EXCLUDED.segment,
  price=EXCLUDED.price, currency=EXCLUDED.currency, specifications=EXCLUDED.specifications,
  brand=EXCLUDED.brand, model=EXCLUDED.model, image_url=EXCLUDED.image_url,
  description=EXCLUDED.description, source_url=EXCLUDED.source_url, in_stock=EXCLUDED.in_stock,
  performance_score=EXCLUDED.performance_score, gaming_score=EXCLUDED.gaming_score,
  productivity_score=EXCLUDED.productivity_score`,
		c.ID, c.Name, c.Type, c.Segment, c.Price, c.Currency, specs,
		c.Brand, c.Model, c.ImageURL, c.Description, c.SourceURL, c.InStock,
		nullFloat(c.PerformanceScore), nullFloat(c.GamingScore), nullFloat(c.ProductivityScore))
	if err != nil {
		return unavailable("put component", err)
	}
	return nil
}

func (s *PostgresStore) queryPresets(ctx context.Context, op, query string, args ...any) ([]models.Preset, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer rows.Close()
	out := make([]models.Preset, 0, 16)
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, unavailable(op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(op, err)
	}
	return out, nil
}

func (s *PostgresStore) Query(ctx context.Context, deviceType models.DeviceType, segment models.Segment) ([]models.Preset, error) {
	return s.queryPresets(ctx, "query presets",
		`SELECT `+presetColumns+` FROM presets WHERE device_type = $1 AND segment = $2 ORDER BY id`,
		deviceType, segment)
}

func (s *PostgresStore) GetPreset(ctx context.Context, id string) (models.Preset, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return models.Preset{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+presetColumns+` FROM presets WHERE id = $1`, id)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Preset{}, ErrNotFound
	}
	if err != nil {
		return models.Preset{}, unavailable("get preset", err)
	}
	return p, nil
}

func (s *PostgresStore) ListPresets(ctx context.Context, filter PresetFilter) ([]models.Preset, error) {
	where := []string{"is_active = TRUE"}
	var args []any
	if filter.DeviceType != "" {
		args = append(args, filter.DeviceType)
		where = append(where, fmt.Sprintf("device_type = $%d", len(args)))
	}
	if filter.Segment != "" {
		args = append(args, filter.Segment)
		where = append(where, fmt.Sprintf("segment = $%d", len(args)))
	}
	if filter.Budget != nil {
		args = append(args, *filter.Budget)
		n := len(args)
		where = append(where,
			fmt.Sprintf("(min_budget IS NULL OR min_budget <= $%d)", n),
			fmt.Sprintf("(max_budget IS NULL OR max_budget >= $%d)", n))
	}
	return s.queryPresets(ctx, "list presets",
		`SELECT `+presetColumns+` FROM presets WHERE `+strings.Join(where, " AND ")+` ORDER BY id`, args...)
}

func (s *PostgresStore) PutPreset(ctx context.Context, p models.Preset) error {
	if err := validatePreset(p); err != nil {
		return err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	slots, err := json.Marshal(p.ComponentMap)
	if err != nil {
		return fmt.Errorf("encode component map of %s: %w", p.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO presets (`+presetColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (id)
DO UPDATE SET name=EXCLUDED.name, description=EXCLUDED.description,
  device_type=EXCLUDED.device_type, segment=EXCLUDED.segment,
  min_budget=EXCLUDED.min_budget, max_budget=EXCLUDED.max_budget,
  component_map=EXCLUDED.component_map, total_price=EXCLUDED.total_price,
  performance_score=EXCLUDED.performance_score, reasoning=EXCLUDED.reasoning,
  is_active=EXCLUDED.is_active, priority=EXCLUDED.priority, image_url=EXCLUDED.image_url`,
		p.ID, p.Name, p.Description, p.DeviceType, p.Segment, nullFloat(p.MinBudget), nullFloat(p.MaxBudget),
		slots, p.TotalPrice, nullFloat(p.PerformanceScore), p.Reasoning, p.IsActive, p.Priority, p.ImageURL)
	if err != nil {
		return unavailable("put preset", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
