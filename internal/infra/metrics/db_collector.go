package metrics

import "database/sql"

// RecordDBPoolMetrics updates database pool metrics.
func RecordDBPoolMetrics(stats sql.DBStats) {
	DBPoolConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	DBPoolConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	DBPoolConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	DBPoolConnections.WithLabelValues("max").Set(float64(stats.MaxOpenConnections))
}
