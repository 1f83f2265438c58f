package www

import (
	"log/slog"
	"net/http"

	"github.com/sqrtt/damua-go/database"
)

func NewLogHandler(logger *slog.Logger, db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			minLvl := slog.Level(intOrDefault(r.URL, "level", int(slog.LevelDebug)))
			page := intOrDefault(r.URL, "page", 1)
			pageSize := intOrDefault(r.URL, "pageSize", 50)

			entries, err := db.GetLogEntries(r.Context(), minLvl, page, pageSize)
			if err != nil {
				logger.Error("handling log request", slog.Any("error", err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(logger, w, entries)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
