package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ulelab/flow-batch/config"
)

const envFile = "flow.env"

var (
	// populated at compile time based on data injected by the makefile
	version   = "unset"
	timestamp = "unset"
)

// Create the root command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flowbatch",
		Short: "Split a Flow project's samples into batches and submit pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("env-file", envFile, "environment file to load settings from")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newUploadCmd())
	return cmd
}

// Create the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("flowbatch %s %s\n", version, timestamp)
		},
	}
}

// setup loads the environment and builds the shared config, including the
// mode-appropriate logger.  The returned func flushes the logger and should
// be deferred by the caller.
func setup(cmd *cobra.Command) (*config.Config, func(), error) {
	file, _ := cmd.Flags().GetString("env-file")
	env, err := config.Load(file)
	if err != nil {
		return nil, nil, err
	}

	var logger *zap.Logger
	switch env.Mode {
	case "dev":
		logger, err = zap.NewDevelopment()
	case "prod":
		logger, err = zap.NewProduction()
	default:
		err = fmt.Errorf("Invalid 'mode' flag: %s", env.Mode)
	}
	if err != nil {
		return nil, nil, err
	}
	sugar := logger.Sugar()

	sugar.Infof("Version: %s Timestamp: %s", version, timestamp)
	sugar.Info(env)

	cfg := &config.Config{
		Logger:      sugar,
		Environment: env,
	}
	return cfg, func() { _ = logger.Sync() }, nil
}

// Main entry point
func main() {
	root := newRootCmd()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	root.SetContext(ctx)
	if err := root.Execute(); err != nil {
		log.SetFlags(0)
		log.Println(err)
		os.Exit(1)
	}
}
