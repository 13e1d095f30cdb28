package scraper

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// startAPI serve the job's status and, when enabled, the Prometheus
// metrics endpoint
func (s *Scraper) startAPI() {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		stats := s.QueueStats()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"job":          s.Config.Job,
			"discovered":   stats.Discovered,
			"pending":      stats.Pending,
			"processed":    stats.Processed,
			"skipped":      stats.Skipped,
			"failed":       stats.Failed,
			"rate_per_min": stats.RatePerMinute,
			"eta":          stats.EstimatedCompletion.String(),
			"running_time": time.Since(s.StartTime).String(),
		})
	})

	if s.Config.Prometheus {
		mux.Handle("/metrics", promhttp.Handler())
	}

	addr := fmt.Sprintf(":%d", s.Config.APIPort)
	log.WithFields(log.Fields{
		"address": addr,
	}).Info("API server started")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithFields(log.Fields{
			"error": err,
		}).Error("API server stopped")
	}
}
