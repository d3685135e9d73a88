package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"AgroCast/internal/domain/models"
	drepo "AgroCast/internal/domain/repository"
	applogger "AgroCast/pkg/logger"
)

// PostgresObservationStore implements ObservationStore with sqlx.
type PostgresObservationStore struct {
	db     *sqlx.DB
	table  string
	now    func() time.Time
	logger *applogger.Logger
}

func NewPostgresObservationStore(db *sqlx.DB, table string, logger *applogger.Logger) *PostgresObservationStore {
	if logger == nil {
		logger = applogger.NewNop()
	}
	return &PostgresObservationStore{db: db, table: table, now: time.Now, logger: logger}
}

type observationRow struct {
	ID          string    `db:"id"`
	LocationKey string    `db:"location_key"`
	Lat         float64   `db:"lat"`
	Lon         float64   `db:"lon"`
	Ts          time.Time `db:"ts"`
	Day         string    `db:"day"`
	Temp        float64   `db:"temp"`
	Humidity    float64   `db:"humidity"`
	Pressure    *float64  `db:"pressure"`
	WindSpeed   *float64  `db:"wind_speed"`
	Rain        *float64  `db:"rain"`
	Condition   string    `db:"condition"`
	Source      string    `db:"source"`
}

type dailyRow struct {
	Date              string          `db:"date"`
	AvgTemp           float64         `db:"avg_temp"`
	MinTemp           float64         `db:"min_temp"`
	MaxTemp           float64         `db:"max_temp"`
	AvgHumidity       float64         `db:"avg_humidity"`
	AvgPressure       sql.NullFloat64 `db:"avg_pressure"`
	AvgWindSpeed      sql.NullFloat64 `db:"avg_wind_speed"`
	TotalRain         sql.NullFloat64 `db:"total_rain"`
	DominantCondition sql.NullString  `db:"dominant_condition"`
}

func toRow(o *models.Observation) observationRow {
	return observationRow{
		ID:          o.ID,
		LocationKey: o.LocationKey,
		Lat:         o.Lat,
		Lon:         o.Lon,
		Ts:          o.Timestamp.UTC(),
		Day:         o.Date,
		Temp:        o.Temp,
		Humidity:    o.Humidity,
		Pressure:    o.Pressure,
		WindSpeed:   o.WindSpeed,
		Rain:        o.Rain,
		Condition:   o.Condition,
		Source:      o.Source,
	}
}

func (s *PostgresObservationStore) insertQuery() string {
	return fmt.Sprintf(`INSERT INTO %s (%s)
VALUES (:id, :location_key, :lat, :lon, :ts, :day, :temp, :humidity, :pressure, :wind_speed, :rain, :condition, :source)
ON CONFLICT (id) DO NOTHING`, s.table, observationColumns)
}

func (s *PostgresObservationStore) Append(ctx context.Context, o *models.Observation) error {
	if o == nil || o.LocationKey == "" {
		return models.ErrInvalidObservation
	}
	if _, err := s.db.NamedExecContext(ctx, s.insertQuery(), toRow(o)); err != nil {
		s.logger.Error("Failed to insert observation", applogger.Error(err), applogger.String("location", o.LocationKey))
		return fmt.Errorf("postgres insert observation: %w", err)
	}
	return nil
}

func (s *PostgresObservationStore) AppendBatch(ctx context.Context, obs []*models.Observation) error {
	rows := make([]observationRow, 0, len(obs))
	for _, o := range obs {
		if o == nil || o.LocationKey == "" {
			continue
		}
		rows = append(rows, toRow(o))
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := s.db.NamedExecContext(ctx, s.insertQuery(), rows); err != nil {
		s.logger.Error("Failed to insert observation batch", applogger.Error(err), applogger.Int("rows", len(rows)))
		return fmt.Errorf("postgres insert observations: %w", err)
	}
	return nil
}

// GetDailyStats groups by day in SQL. The dominant condition subquery orders by
// frequency, then by first reading time.
func (s *PostgresObservationStore) GetDailyStats(ctx context.Context, locationKey string, days int) ([]models.DailyStat, error) {
	cutoff := s.now().AddDate(0, 0, -days).UTC()

	q := fmt.Sprintf(`SELECT to_char(o.day, 'YYYY-MM-DD') AS date,
    AVG(o.temp) AS avg_temp,
    MIN(o.temp) AS min_temp,
    MAX(o.temp) AS max_temp,
    AVG(o.humidity) AS avg_humidity,
    AVG(o.pressure) AS avg_pressure,
    AVG(o.wind_speed) AS avg_wind_speed,
    SUM(o.rain) AS total_rain,
    (SELECT c.condition FROM %[1]s c
        WHERE c.location_key = o.location_key AND c.day = o.day AND c.ts >= $2 AND c.condition <> ''
        GROUP BY c.condition
        ORDER BY COUNT(*) DESC, MIN(c.ts) ASC
        LIMIT 1) AS dominant_condition
FROM %[1]s o
WHERE o.location_key = $1 AND o.ts >= $2
GROUP BY o.location_key, o.day
ORDER BY o.day DESC
LIMIT $3`, s.table)

	var rows []dailyRow
	if err := s.db.SelectContext(ctx, &rows, q, locationKey, cutoff, days); err != nil {
		s.logger.Error("Failed to query daily stats", applogger.Error(err), applogger.String("location", locationKey))
		return nil, fmt.Errorf("postgres daily stats: %w", err)
	}

	stats := make([]models.DailyStat, len(rows))
	for i, r := range rows {
		// rows are newest first
		stats[len(rows)-1-i] = models.DailyStat{
			Date:              r.Date,
			AvgTemp:           models.Float(r.AvgTemp),
			MinTemp:           models.Float(r.MinTemp),
			MaxTemp:           models.Float(r.MaxTemp),
			AvgHumidity:       models.Float(r.AvgHumidity),
			AvgPressure:       nullable(r.AvgPressure),
			AvgWindSpeed:      nullable(r.AvgWindSpeed),
			TotalRain:         nullable(r.TotalRain),
			DominantCondition: r.DominantCondition.String,
		}
	}
	return stats, nil
}

func (s *PostgresObservationStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE ts < $1", s.table), before.UTC())
	if err != nil {
		return 0, fmt.Errorf("postgres prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("postgres prune rows: %w", err)
	}
	return n, nil
}

func (s *PostgresObservationStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresObservationStore) Close() error {
	return nil // pool is managed by pkg/postgres
}

var _ drepo.ObservationStore = (*PostgresObservationStore)(nil)
