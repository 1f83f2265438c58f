package www

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sqrtt/damua-go/config"
	"github.com/sqrtt/damua-go/coordinator"
	"github.com/sqrtt/damua-go/readings"
)

func NewReadingsHandler(logger *slog.Logger, coord *coordinator.Coordinator, price *config.LivePrice) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			p := price.Get()
			rds := readings.ComputeAll(readings.Input{
				Snapshot:        coord.Snapshot(),
				UpdatedAt:       coord.UpdatedAt(),
				MeterZones:      p.GetMeterZones(),
				HouseholdTariff: p.HouseholdTariff,
				Now:             time.Now(),
			})
			writeJSON(logger, w, rds)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
