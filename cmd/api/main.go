package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"dashbuilder/internal/config"
	"dashbuilder/internal/repository"
	"dashbuilder/internal/router"
	"dashbuilder/internal/util"
)

func loggerInitialize(cfg *config.Config) (util.AppLogger, error) {

	var appLogger util.AppLogger

	util.SetLoggerPath(cfg.LogDir)
	util.CheckAndCreateLogFolder(cfg.LogDir)
	util.SetGlobalLogLevel(cfg.LogLevel)

	if err := appLogger.Init("dashbuilder.log", false); err != nil {
		fmt.Println("Failed to initialize logger:", err)
		return util.AppLogger{}, err
	}

	appLogger.LogEvent(util.LOG_LEVEL_INFO, "Service started")

	currentTime := time.Now().Format(time.RFC3339)

	fmt.Fprintf(os.Stderr, "\n%s: dashbuilder started \n", currentTime)

	return appLogger, nil

}

func main() {

	cfg := config.Load()

	logger, err := loggerInitialize(cfg)
	if err != nil {
		fmt.Println("Error while initializing the logger..", err)
		return
	}

	store := repository.NewSQLiteStore(cfg.DBPath)

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	router.Run(store, store, &logger, cfg.ListenAddr)
}
