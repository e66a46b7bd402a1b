package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yusufkecer/fittrack-backend/internal/config"
	"github.com/yusufkecer/fittrack-backend/internal/logging"
)

var (
	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fittrack",
	Short: "FitTrack fitness tracking API",
	Long:  "FitTrack serves the REST API for workouts, meals, progress check-ins, reminders and wearable sync.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		log = logging.New(cfg.LogLevel, cfg.LogFormat)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
