package www

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sqrtt/damua-go/config"
	"github.com/sqrtt/damua-go/coordinator"
	"github.com/sqrtt/damua-go/database"
	"github.com/sqrtt/damua-go/readings"
)

type Server struct {
	logger *slog.Logger
	config config.AppConfigApi
	coord  *coordinator.Coordinator
	price  *config.LivePrice
	db     *database.Database
	hub    *Hub
}

func StartServer(coord *coordinator.Coordinator, price *config.LivePrice, db *database.Database, cnfg config.AppConfigApi) *Server {
	logger := slog.Default().With("module", "www")

	s := &Server{
		logger: logger,
		config: cnfg,
		coord:  coord,
		price:  price,
		db:     db,
		hub:    NewHub(logger),
	}

	go s.hub.Run()

	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	http.Handle("/api/prices", logReqMW(NewPricesHandler(
		logger.With(slog.String("handler", "prices")),
		coord)))

	http.Handle("/api/prices/today", logReqMW(NewTodayPricesHandler(
		logger.With(slog.String("handler", "prices_today")),
		coord)))

	http.Handle("/api/readings", logReqMW(NewReadingsHandler(
		logger.With(slog.String("handler", "readings")),
		coord,
		price)))

	http.Handle("/api/sync", logReqMW(NewSyncHandler(
		logger.With(slog.String("handler", "sync")),
		coord)))

	http.Handle("/api/log", logReqMW(NewLogHandler(
		logger.With(slog.String("handler", "log")),
		db)))

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get("User-Agent")
		client, err := NewClient(s.hub, w, r, name)
		if err != nil {
			s.logger.Error("new websocket client failed", slog.Any("error", err))
			return
		}
		s.hub.Register <- client
		go client.WritePump()
	})

	return s
}

// BroadcastReadings pushes the latest readings to all websocket clients.
func (s *Server) BroadcastReadings(rds map[readings.Kind]readings.Reading) {
	buf, err := json.Marshal(rds)
	if err != nil {
		s.logger.Error("marshalling readings failed", slog.Any("error", err))
		return
	}
	s.hub.Broadcast <- buf
}

func (s *Server) Run(ctx context.Context) {
	s.logger.Info("starting server...", "port", s.config.Port)
	srv := &http.Server{
		Addr: fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
	}

	srvErrors := make(chan error, 1)

	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	for {
		select {
		case err := <-srvErrors:
			if err != nil {
				s.logger.Error("server error", slog.Any("error", err))
			}

		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			err := srv.Shutdown(shutdownCtx)
			if err != nil {
				s.logger.Error("server shutdown failed", slog.Any("error", err))
			}
			return
		}
	}
}
