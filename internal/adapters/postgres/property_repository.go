package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mmcloughlin/geohash"
)

const propertyColumns = `id, title, description, type, location, price_value, price_currency, status,
	features, images, virtual_tour_url, show_on_homepage, homepage_priority,
	total_views, last_week_views, last_month_views, seo, internal_notes, created_at, updated_at`

// порядок выдачи списков; на нем держится стабильность сортировок витрины
const listingOrder = ` ORDER BY created_at DESC, id ASC`

// PropertyRepository - реализация PropertyRepositoryPort для PostgreSQL.
// Вложенные группы полей хранятся в JSONB, поля для фильтров продублированы колонками.
type PropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) (*PropertyRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PropertyRepository{pool: pool}, nil
}

func scanProperty(row pgx.Row) (domain.Property, error) {
	var p domain.Property
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Type, &p.Location, &p.Price.Value, &p.Price.Currency, &p.Status,
		&p.Features, &p.Images, &p.VirtualTourURL, &p.HomepageDisplay.ShowOnHomepage, &p.HomepageDisplay.HomepagePriority,
		&p.ViewsStats.TotalViews, &p.ViewsStats.LastWeekViews, &p.ViewsStats.LastMonthViews, &p.SEO, &p.InternalNotes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if p.Images == nil {
		p.Images = []domain.Image{}
	}
	return p, err
}

func collectProperties(rows pgx.Rows, capacity int) ([]domain.Property, error) {
	defer rows.Close()
	out := make([]domain.Property, 0, capacity)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}
	return out, nil
}

// locationGeohash считает geohash для поиска поблизости; без координат - пустая строка
func locationGeohash(loc domain.Location) string {
	if loc.Coordinates.IsZero() {
		return ""
	}
	return geohash.Encode(loc.Coordinates.Lat, loc.Coordinates.Lng)
}

// homepageCandidatesQuery отдает объекты в любом статусе: отбор делает homepage.Filter
const homepageCandidatesQuery = `SELECT ` + propertyColumns + ` FROM properties` + listingOrder

func (r *PropertyRepository) ListHomepageCandidates(ctx context.Context) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PropertyRepository",
		"method":    "ListHomepageCandidates",
	})

	query := homepageCandidatesQuery

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		repoLogger.Error("Failed to list homepage candidates", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to list homepage candidates: %w", err)
	}
	props, err := collectProperties(rows, 64)
	if err != nil {
		repoLogger.Error("Failed to read homepage candidates", err, nil)
		return nil, err
	}

	repoLogger.Debug("Homepage candidates loaded", port.Fields{"count": len(props)})
	return props, nil
}

func (r *PropertyRepository) Find(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PropertyRepository",
		"method":    "Find",
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})

	whereClause, args := applyPropertyFilter(filter)

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	countQuery := "SELECT COUNT(*) FROM properties " + whereClause
	var total int
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		repoLogger.Error("Failed to count properties", err, port.Fields{"query": countQuery})
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}
	if total == 0 {
		return []domain.Property{}, 0, nil
	}

	dataQuery := fmt.Sprintf("SELECT %s FROM properties %s%s LIMIT $%d OFFSET $%d",
		propertyColumns, whereClause, listingOrder, len(args)+1, len(args)+2)
	rows, err := tx.Query(ctx, dataQuery, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		repoLogger.Error("Failed to find properties", err, port.Fields{"query": dataQuery})
		return nil, 0, fmt.Errorf("failed to find properties: %w", err)
	}
	props, err := collectProperties(rows, filter.Limit)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Properties found", port.Fields{"count": len(props), "total": total})
	return props, total, nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PropertyRepository",
		"method":      "GetByID",
		"property_id": id,
	})

	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	p, err := scanProperty(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Debug("Property not found", nil)
			return nil, domain.ErrPropertyNotFound
		}
		repoLogger.Error("Failed to get property", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &p, nil
}

func (r *PropertyRepository) FindByGeohashPrefixes(ctx context.Context, prefixes []string, limit int) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PropertyRepository",
		"method":    "FindByGeohashPrefixes",
		"prefixes":  prefixes,
	})

	if len(prefixes) == 0 {
		return []domain.Property{}, nil
	}
	patterns := make([]string, len(prefixes))
	for i, p := range prefixes {
		patterns[i] = p + "%"
	}

	query := `SELECT ` + propertyColumns + ` FROM properties
		WHERE status = 'active' AND geohash <> '' AND geohash LIKE ANY($1::text[])` + listingOrder + ` LIMIT $2`

	rows, err := r.pool.Query(ctx, query, patterns, limit)
	if err != nil {
		repoLogger.Error("Failed to find properties by geohash", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to find properties by geohash: %w", err)
	}
	return collectProperties(rows, limit)
}

func (r *PropertyRepository) Create(ctx context.Context, p domain.Property) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PropertyRepository",
		"method":      "Create",
		"property_id": p.ID,
	})

	p.Location.Geohash = locationGeohash(p.Location)
	query := `INSERT INTO properties (` + propertyColumns + `, region, city, geohash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Title, p.Description, p.Type, p.Location, p.Price.Value, p.Price.Currency, p.Status,
		p.Features, p.Images, p.VirtualTourURL, p.HomepageDisplay.ShowOnHomepage, p.HomepageDisplay.HomepagePriority,
		p.ViewsStats.TotalViews, p.ViewsStats.LastWeekViews, p.ViewsStats.LastMonthViews, p.SEO, p.InternalNotes,
		p.CreatedAt, p.UpdatedAt, p.Location.Region, p.Location.City, p.Location.Geohash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			repoLogger.Warn("Property with this id already exists", nil)
			return fmt.Errorf("property %s already exists: %w", p.ID, err)
		}
		repoLogger.Error("Failed to create property", err, port.Fields{"query": query})
		return fmt.Errorf("failed to create property: %w", err)
	}

	repoLogger.Debug("Property created", nil)
	return nil
}

func (r *PropertyRepository) Replace(ctx context.Context, p domain.Property) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PropertyRepository",
		"method":      "Replace",
		"property_id": p.ID,
	})

	p.Location.Geohash = locationGeohash(p.Location)
	query := `UPDATE properties SET
		title = $2, description = $3, type = $4, location = $5, price_value = $6, price_currency = $7,
		status = $8, features = $9, images = $10, virtual_tour_url = $11, show_on_homepage = $12,
		homepage_priority = $13, seo = $14, internal_notes = $15, updated_at = $16,
		region = $17, city = $18, geohash = $19
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Title, p.Description, p.Type, p.Location, p.Price.Value, p.Price.Currency,
		p.Status, p.Features, p.Images, p.VirtualTourURL, p.HomepageDisplay.ShowOnHomepage,
		p.HomepageDisplay.HomepagePriority, p.SEO, p.InternalNotes, p.UpdatedAt,
		p.Location.Region, p.Location.City, p.Location.Geohash,
	)
	if err != nil {
		repoLogger.Error("Failed to replace property", err, port.Fields{"query": query})
		return fmt.Errorf("failed to replace property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

func (r *PropertyRepository) UpdateStatus(ctx context.Context, id string, status domain.PropertyStatus, updatedAt time.Time) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PropertyRepository",
		"method":      "UpdateStatus",
		"property_id": id,
	})

	tag, err := r.pool.Exec(ctx, `UPDATE properties SET status = $2, updated_at = $3 WHERE id = $1`, id, status, updatedAt)
	if err != nil {
		repoLogger.Error("Failed to update property status", err, nil)
		return fmt.Errorf("failed to update property status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

// IncrementView увеличивает общий и дневной счетчики в одной транзакции
func (r *PropertyRepository) IncrementView(ctx context.Context, propertyID string, viewedAt time.Time) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PropertyRepository",
		"method":      "IncrementView",
		"property_id": propertyID,
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE properties SET total_views = total_views + 1 WHERE id = $1`, propertyID)
	if err != nil {
		repoLogger.Error("Failed to increment total views", err, nil)
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPropertyNotFound
	}

	day := viewedAt.UTC().Truncate(24 * time.Hour)
	_, err = tx.Exec(ctx, `
		INSERT INTO property_daily_views (property_id, day, views) VALUES ($1, $2, 1)
		ON CONFLICT (property_id, day) DO UPDATE SET views = property_daily_views.views + 1`,
		propertyID, day)
	if err != nil {
		repoLogger.Error("Failed to increment daily views", err, nil)
		return fmt.Errorf("failed to increment daily views: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// дневная история дольше месяца для рейтинга не нужна
const dailyViewsRetentionDays = 90

// RollupViews пересчитывает lastWeekViews (7 дней, включая today) и lastMonthViews (30 дней)
func (r *PropertyRepository) RollupViews(ctx context.Context, today time.Time) (int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PropertyRepository",
		"method":    "RollupViews",
	})

	query := `
		UPDATE properties p
		SET last_week_views = w.week, last_month_views = w.month
		FROM (
			SELECT pr.id,
				COALESCE(SUM(v.views) FILTER (WHERE v.day > $1::date - 7), 0) AS week,
				COALESCE(SUM(v.views), 0) AS month
			FROM properties pr
			LEFT JOIN property_daily_views v
				ON v.property_id = pr.id AND v.day > $1::date - 30 AND v.day <= $1::date
			GROUP BY pr.id
		) w
		WHERE w.id = p.id AND (p.last_week_views <> w.week OR p.last_month_views <> w.month)`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, query, today)
	if err != nil {
		repoLogger.Error("Failed to roll up views", err, port.Fields{"query": query})
		return 0, fmt.Errorf("failed to roll up views: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM property_daily_views WHERE day < $1::date - $2::int`, today, dailyViewsRetentionDays); err != nil {
		repoLogger.Error("Failed to prune daily views", err, nil)
		return 0, fmt.Errorf("failed to prune daily views: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return tag.RowsAffected(), nil
}

// GetDashboardStats собирает сводку по объектам и чату
func (r *PropertyRepository) GetDashboardStats(ctx context.Context, newSince time.Time) (*domain.DashboardStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PropertyRepository",
		"method":    "GetDashboardStats",
	})

	stats := &domain.DashboardStats{PropertiesByStatus: make(map[domain.PropertyStatus]int)}

	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total_views), 0), COUNT(*) FILTER (WHERE created_at >= $1)
		FROM properties GROUP BY status`, newSince)
	if err != nil {
		repoLogger.Error("Failed to aggregate properties", err, nil)
		return nil, fmt.Errorf("failed to aggregate properties: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status       domain.PropertyStatus
			count, fresh int
			views        int64
		)
		if err := rows.Scan(&status, &count, &views, &fresh); err != nil {
			return nil, fmt.Errorf("failed to scan property stats: %w", err)
		}
		stats.PropertiesByStatus[status] = count
		stats.TotalProperties += count
		stats.TotalViews += views
		stats.NewListings += fresh
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate property stats: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE NOT is_ai), COUNT(DISTINCT session_id) FROM chat_messages`,
	).Scan(&stats.Inquiries, &stats.ChatSessions)
	if err != nil {
		repoLogger.Error("Failed to aggregate chat messages", err, nil)
		return nil, fmt.Errorf("failed to aggregate chat messages: %w", err)
	}

	return stats, nil
}
