package snapshot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stagesetting_snapshot_loads_total",
		Help: "Number of settings snapshots read from storage.",
	})

	invalidRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stagesetting_invalid_rows_total",
		Help: "Number of stored setting values ignored because they did not validate.",
	}, []string{"setting"})

	writeBacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stagesetting_write_backs_total",
		Help: "Number of stored setting values completed with new default keys.",
	})
)
