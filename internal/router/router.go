package router

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"dashbuilder/internal/domain"
	"dashbuilder/internal/endpoints"
	"dashbuilder/internal/util"
)

func NewRouter(dashStore domain.DashboardStore, metricStore domain.MetricStore, logger *util.AppLogger) *mux.Router {
	r := mux.NewRouter()

	addRoutes(r, dashStore, metricStore, logger)

	r.Use(loggingMiddleware(logger))

	return r
}

func addRoutes(r *mux.Router, dashStore domain.DashboardStore, metricStore domain.MetricStore, logger *util.AppLogger) {

	dashboardsHandler := &endpoints.Dashboards{}
	dashboardsHandler.Init(dashStore, logger)

	metricsHandler := &endpoints.Metrics{}
	metricsHandler.Init(metricStore, logger)

	r.HandleFunc("/dashboards", dashboardsHandler.CreateHandler).Methods("POST")
	r.HandleFunc("/dashboards/import", dashboardsHandler.ImportHandler).Methods("POST")
	r.HandleFunc("/dashboards/{id}/panels", dashboardsHandler.AddPanelHandler).Methods("POST")
	r.HandleFunc("/dashboards/{id}/variables", dashboardsHandler.AddVariableHandler).Methods("POST")
	r.HandleFunc("/dashboards/{id}/export", dashboardsHandler.ExportHandler).Methods("GET")

	r.HandleFunc("/metrics", metricsHandler.PushHandler).Methods("POST")
	r.HandleFunc("/metrics/query", metricsHandler.QueryRangeHandler).Methods("GET")
	r.HandleFunc("/metrics/latest", metricsHandler.LatestHandler).Methods("GET")
	r.HandleFunc("/metrics/stats", metricsHandler.StatsHandler).Methods("GET")
}

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func Run(dashStore domain.DashboardStore, metricStore domain.MetricStore, logger *util.AppLogger, addr string) {
	appRouter := NewRouter(dashStore, metricStore, logger)

	server := NewServer(addr, appRouter)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		println()
		log.Println("Shutting down server...")

		err := gracefulShutdown(server, 25*time.Second)

		if err != nil {
			log.Printf("Server stopped with error: %s", err.Error())
		} else {
			log.Println("Server stopped gracefully.")
		}

		os.Exit(0)
	}()

	log.Printf("Listening on %s", server.Addr)
	log.Fatal(server.ListenAndServe())
}

func gracefulShutdown(server *http.Server, maximumTime time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), maximumTime)
	defer cancel()

	return server.Shutdown(ctx)
}

func loggingMiddleware(logger *util.AppLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.LogEvent(util.LOG_LEVEL_INFO, fmt.Sprintf("Request: %s %s", r.Method, r.RequestURI))
			next.ServeHTTP(w, r)
		})
	}
}
