package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version info (set via ldflags)
	Version   = "0.2.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

var (
	configFile string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "screenwatch",
	Short: "Run a display reconciler when monitors are plugged or unplugged",
	Long: `screenwatch is a session daemon that watches udev drm events and runs
a configured command (autorandr by default) after the events settle.
Desktops that manage displays themselves (GNOME, KDE, ...) are skipped.

Run with no arguments to start watching.`,
	SilenceUsage: true,
	RunE:         runDaemon,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List drm connectors and their status",
	Long:  `Enumerates the drm subsystem and prints each card connector with its sysfs status.`,
	RunE:  runList,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print drm events to stdout as they arrive",
	Long: `Subscribes to drm udev events and prints them without acting on them.
Useful to see what your hardware emits while tuning the debounce delay.`,
	RunE: runWatch,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("screenwatch %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"use `configfile` for your config")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"only log errors")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	conf, err := getConfig(configFile)
	if err != nil {
		return err
	}
	level, err := conf.zapLevel()
	if err != nil {
		return err
	}
	if quiet {
		level = zapcore.ErrorLevel
	}
	logger, err := newLogger(level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-sighalt()
		cancel()
	}()

	// closing done tears down the netlink subscription
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(done)
	}()

	events, err := watchEvents(done)
	if err != nil {
		logger.Error("udev subscription failed", zap.Error(err))
		return fmt.Errorf("udev subscription: %w", err)
	}

	return newMonitor(conf, events, logger).Run(ctx)
}

// watch for signals to quit
func sighalt() <-chan os.Signal {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGQUIT, syscall.SIGTERM)
	return interrupts
}

func runList(cmd *cobra.Command, args []string) error {
	conns, err := drmConnectors()
	if err != nil {
		return err
	}
	for _, c := range conns {
		fmt.Println(c)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	done := make(chan struct{})
	go func() {
		<-sighalt()
		close(done)
	}()

	events, err := watchEvents(done)
	if err != nil {
		return err
	}
	fmt.Println("watching drm events, ctrl-c to stop")
	for ev := range events {
		fmt.Printf("%-8s %s\n", ev.Action, ev.DevNode)
	}
	return nil
}
