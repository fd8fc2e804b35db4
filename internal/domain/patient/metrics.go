package patient

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics exposes the store's record counts as gauges. They are
// read from the store at scrape time.
func RegisterMetrics(reg prometheus.Registerer, s *Store) error {
	gauges := []struct {
		name, help string
		value      func(Counts) int
	}{
		{"patients", "Patients currently held in the store.", func(c Counts) int { return c.Patients }},
		{"hospitals", "Hospitals currently held in the store.", func(c Counts) int { return c.Hospitals }},
		{"visits", "Visits currently held in the store.", func(c Counts) int { return c.Visits }},
		{"patient_hospitals", "Patient, hospital and visit associations currently held in the store.", func(c Counts) int { return c.Associations }},
	}

	for _, g := range gauges {
		collector := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "patientadmin",
			Subsystem: "store",
			Name:      g.name,
			Help:      g.help,
		}, func() float64 { return float64(g.value(s.Counts())) })
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}
