package repository

import (
	"sort"

	"AgroCast/internal/domain/models"
)

type dayAccumulator struct {
	date       string
	temps      []float64
	humidity   []float64
	pressure   []float64
	wind       []float64
	rain       []float64
	conditions []string
}

// AggregateDaily groups readings by calendar date and reduces each group to a
// DailyStat, oldest date first. Optional fields are averaged over the readings
// that carry them and stay nil when none do. The dominant condition is the most
// frequent one; ties go to the condition seen first in time.
func AggregateDaily(obs []*models.Observation) []models.DailyStat {
	ordered := make([]*models.Observation, 0, len(obs))
	for _, o := range obs {
		if o != nil && o.Date != "" {
			ordered = append(ordered, o)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	byDate := make(map[string]*dayAccumulator)
	dates := make([]string, 0)
	for _, o := range ordered {
		acc, ok := byDate[o.Date]
		if !ok {
			acc = &dayAccumulator{date: o.Date}
			byDate[o.Date] = acc
			dates = append(dates, o.Date)
		}
		acc.temps = append(acc.temps, o.Temp)
		acc.humidity = append(acc.humidity, o.Humidity)
		if o.Pressure != nil {
			acc.pressure = append(acc.pressure, *o.Pressure)
		}
		if o.WindSpeed != nil {
			acc.wind = append(acc.wind, *o.WindSpeed)
		}
		if o.Rain != nil {
			acc.rain = append(acc.rain, *o.Rain)
		}
		if o.Condition != "" {
			acc.conditions = append(acc.conditions, o.Condition)
		}
	}

	sort.Strings(dates)
	out := make([]models.DailyStat, 0, len(dates))
	for _, d := range dates {
		out = append(out, byDate[d].stat())
	}
	return out
}

func (a *dayAccumulator) stat() models.DailyStat {
	minT, maxT := a.temps[0], a.temps[0]
	for _, t := range a.temps[1:] {
		if t < minT {
			minT = t
		}
		if t > maxT {
			maxT = t
		}
	}
	return models.DailyStat{
		Date:              a.date,
		AvgTemp:           mean(a.temps),
		MinTemp:           models.Float(minT),
		MaxTemp:           models.Float(maxT),
		AvgHumidity:       mean(a.humidity),
		AvgPressure:       mean(a.pressure),
		AvgWindSpeed:      mean(a.wind),
		TotalRain:         sum(a.rain),
		DominantCondition: mostFrequent(a.conditions),
	}
}

func mean(values []float64) *float64 {
	s := sum(values)
	if s == nil {
		return nil
	}
	return models.Float(*s / float64(len(values)))
}

func sum(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return &total
}

func mostFrequent(values []string) string {
	counts := make(map[string]int, len(values))
	order := make([]string, 0, len(values))
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	best, bestCount := "", 0
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

// trimToLast keeps the newest n daily stats.
func trimToLast(stats []models.DailyStat, n int) []models.DailyStat {
	if n > 0 && len(stats) > n {
		return stats[len(stats)-n:]
	}
	return stats
}
