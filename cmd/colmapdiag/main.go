// Reconstruction database diagnostics
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"rgbd-capture/internal/colmap"
)

func main() {
	var (
		dbPath    = flag.String("db", "database.db", "path to the reconstruction database")
		debugMode = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	logger := initLogger(*debugMode)
	os.Exit(run(logger, *dbPath))
}

func run(logger *logrus.Logger, dbPath string) int {
	db, err := colmap.Open(dbPath)
	if err != nil {
		logger.WithError(err).Error("Opening database failed")
		return 1
	}
	defer db.Close()

	ctx := context.Background()

	keypoints, err := db.KeypointCounts(ctx)
	if err != nil {
		logger.WithError(err).Error("Querying keypoint counts failed")
		return 1
	}
	fmt.Println("Keypoints per image:")
	for _, s := range keypoints {
		fmt.Printf("  %s: %d\n", s.Name, s.Count)
	}

	partners, err := db.MatchPartners(ctx)
	if err != nil {
		logger.WithError(err).Error("Querying match partners failed")
		return 1
	}
	fmt.Println("Match partners per image:")
	for _, s := range partners {
		fmt.Printf("  %s: %d\n", s.Name, s.Count)
	}
	return 0
}

func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
