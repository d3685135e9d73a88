package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"AgroCast/internal/domain/models"
	drepo "AgroCast/internal/domain/repository"
	applogger "AgroCast/pkg/logger"
)

const observationColumns = "id, location_key, lat, lon, ts, day, temp, humidity, pressure, wind_speed, rain, condition, source"

// ClickHouseObservationStore implements ObservationStore on a MergeTree table.
// Daily aggregation runs server side.
type ClickHouseObservationStore struct {
	db     *sql.DB
	table  string
	now    func() time.Time
	logger *applogger.Logger
}

// NewClickHouseObservationStore creates the store over an open pool. The pool is owned by pkg/clickhouse.
func NewClickHouseObservationStore(db *sql.DB, table string, logger *applogger.Logger) *ClickHouseObservationStore {
	if logger == nil {
		logger = applogger.NewNop()
	}
	return &ClickHouseObservationStore{db: db, table: table, now: time.Now, logger: logger}
}

func observationArgs(o *models.Observation) []interface{} {
	return []interface{}{
		o.ID,
		o.LocationKey,
		o.Lat,
		o.Lon,
		o.Timestamp.UTC(),
		o.Date,
		o.Temp,
		o.Humidity,
		o.Pressure,
		o.WindSpeed,
		o.Rain,
		o.Condition,
		o.Source,
	}
}

func (s *ClickHouseObservationStore) Append(ctx context.Context, o *models.Observation) error {
	return s.AppendBatch(ctx, []*models.Observation{o})
}

func (s *ClickHouseObservationStore) AppendBatch(ctx context.Context, obs []*models.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	// multi-row VALUES, chunked to keep statements bounded
	const chunkSize = 1000
	const placeholders = "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	for start := 0; start < len(obs); start += chunkSize {
		end := start + chunkSize
		if end > len(obs) {
			end = len(obs)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*13)
		for _, o := range obs[start:end] {
			if o == nil || o.LocationKey == "" {
				continue
			}
			values = append(values, placeholders)
			args = append(args, observationArgs(o)...)
		}
		if len(values) == 0 {
			continue
		}

		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", s.table, observationColumns, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			s.logger.Error("Failed to insert observations", applogger.Error(err), applogger.Int("rows", len(values)))
			return fmt.Errorf("clickhouse insert observations: %w", err)
		}
	}
	return nil
}

// GetDailyStats aggregates per day in ClickHouse, then resolves each day's
// dominant condition with a second grouped query.
func (s *ClickHouseObservationStore) GetDailyStats(ctx context.Context, locationKey string, days int) ([]models.DailyStat, error) {
	cutoff := s.now().AddDate(0, 0, -days).UTC()

	q := fmt.Sprintf(`SELECT toString(day) AS d,
    avg(temp), min(temp), max(temp), avg(humidity),
    avgOrNull(pressure), avgOrNull(wind_speed), sumOrNull(rain)
FROM %s
WHERE location_key = ? AND ts >= ?
GROUP BY day
ORDER BY day DESC
LIMIT ?`, s.table)

	rows, err := s.db.QueryContext(ctx, q, locationKey, cutoff, days)
	if err != nil {
		s.logger.Error("Failed to query daily stats", applogger.Error(err), applogger.String("location", locationKey))
		return nil, fmt.Errorf("clickhouse daily stats: %w", err)
	}
	defer rows.Close()

	var stats []models.DailyStat
	for rows.Next() {
		var (
			d                         string
			avgT, minT, maxT, avgH    float64
			pressure, wind, totalRain sql.NullFloat64
		)
		if err := rows.Scan(&d, &avgT, &minT, &maxT, &avgH, &pressure, &wind, &totalRain); err != nil {
			return nil, fmt.Errorf("clickhouse scan daily stats: %w", err)
		}
		stats = append(stats, models.DailyStat{
			Date:         d,
			AvgTemp:      models.Float(avgT),
			MinTemp:      models.Float(minT),
			MaxTemp:      models.Float(maxT),
			AvgHumidity:  models.Float(avgH),
			AvgPressure:  nullable(pressure),
			AvgWindSpeed: nullable(wind),
			TotalRain:    nullable(totalRain),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clickhouse daily stats rows: %w", err)
	}

	// newest first from the LIMIT query, callers want oldest first
	for i, j := 0, len(stats)-1; i < j; i, j = i+1, j-1 {
		stats[i], stats[j] = stats[j], stats[i]
	}

	conds, err := s.dominantConditions(ctx, locationKey, cutoff)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		stats[i].DominantCondition = conds[stats[i].Date]
	}

	s.logger.Debug("Daily stats loaded",
		applogger.String("location", locationKey),
		applogger.Int("days", len(stats)),
	)
	return stats, nil
}

// dominantConditions picks the most frequent condition per day, earliest first seen on ties.
func (s *ClickHouseObservationStore) dominantConditions(ctx context.Context, locationKey string, cutoff time.Time) (map[string]string, error) {
	q := fmt.Sprintf(`SELECT toString(day) AS d, argMin(condition, tuple(-toInt64(c), first_ts))
FROM (
    SELECT day, condition, count() AS c, min(ts) AS first_ts
    FROM %s
    WHERE location_key = ? AND ts >= ? AND condition != ''
    GROUP BY day, condition
)
GROUP BY day`, s.table)

	rows, err := s.db.QueryContext(ctx, q, locationKey, cutoff)
	if err != nil {
		return nil, fmt.Errorf("clickhouse dominant condition: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var d, cond string
		if err := rows.Scan(&d, &cond); err != nil {
			return nil, fmt.Errorf("clickhouse scan condition: %w", err)
		}
		out[d] = cond
	}
	return out, rows.Err()
}

// Prune issues an ALTER TABLE DELETE mutation. The count is taken first since
// mutations do not report affected rows.
func (s *ClickHouseObservationStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	var n uint64
	countQ := fmt.Sprintf("SELECT count() FROM %s WHERE ts < ?", s.table)
	if err := s.db.QueryRowContext(ctx, countQ, before.UTC()).Scan(&n); err != nil {
		return 0, fmt.Errorf("clickhouse count expired: %w", err)
	}
	if n == 0 {
		return 0, nil
	}

	delQ := fmt.Sprintf("ALTER TABLE %s DELETE WHERE ts < ?", s.table)
	if _, err := s.db.ExecContext(ctx, delQ, before.UTC()); err != nil {
		return 0, fmt.Errorf("clickhouse prune: %w", err)
	}
	return int64(n), nil
}

func (s *ClickHouseObservationStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseObservationStore) Close() error {
	return nil // pool is managed by pkg/clickhouse
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return models.Float(v.Float64)
}

var _ drepo.ObservationStore = (*ClickHouseObservationStore)(nil)
