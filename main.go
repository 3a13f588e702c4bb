package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"github.com/ttpr0/go-streetwalker/navigator"
	. "github.com/ttpr0/go-streetwalker/util"
)

func main() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	var config_file string
	root := &cobra.Command{
		Use:          "streetwalker",
		Short:        "Walk along the streets of a city network",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&config_file, "config", "c", "./config.yaml", "path to the yaml config")
	root.AddCommand(
		_ServeCommand(&config_file),
		_TourCommand(&config_file),
		_InspectCommand(&config_file),
	)
	return root
}

// Reads the config and installs the logger.
func _Setup(config_file string) (Config, error) {
	config, err := ReadConfig(config_file)
	if err != nil {
		return config, err
	}
	slog.SetDefault(slog.New(NewLogHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLogLevel(config.Log.Level),
	})))
	return config, nil
}

//**********************************************************
// serve
//**********************************************************

func _ServeCommand(config_file *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the walker service",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := _Setup(*config_file)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Serve(ctx, config)
		},
	}
	return cmd
}

// Runs the http server and the walk session until ctx is cancelled.
func Serve(ctx context.Context, config Config) error {
	metrics := NewMetrics()
	manager := NewWalkManager(config, metrics)
	app := http.NewServeMux()
	MapWalkRoutes(app, manager, metrics)
	server := &http.Server{
		Addr:              config.Server.Addr,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return manager.Run(ctx)
	})
	eg.Go(func() error {
		slog.Info("listening", "addr", config.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdown_ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdown_ctx)
	})
	return eg.Wait()
}

//**********************************************************
// tour
//**********************************************************

func _TourCommand(config_file *string) *cobra.Command {
	var steps int
	var dt time.Duration
	var out string
	cmd := &cobra.Command{
		Use:   "tour",
		Short: "Drive the walker in auto mode and report the covered segments",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := _Setup(*config_file)
			if err != nil {
				return err
			}
			g, err := LoadGraph(cmd.Context(), config)
			if err != nil {
				return err
			}
			nav, err := navigator.New(g, config.Navigator, config.Start.Coord())
			if err != nil {
				return err
			}
			report, track := RunTour(g, nav, steps, dt)
			slog.Info("tour finished", "visited", report.Visited, "segments", report.Segments)
			fmt.Println(report.String())
			if out != "" {
				if err := WriteJSONToFile(NewTrackFeature(track, report), out); err != nil {
					return err
				}
				slog.Info("track written", "file", out)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 10000, "number of clock ticks")
	cmd.Flags().DurationVar(&dt, "dt", 100*time.Millisecond, "simulated time per tick")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the walked track as geojson")
	return cmd
}

//**********************************************************
// inspect
//**********************************************************

func _InspectCommand(config_file *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print statistics of the street graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := _Setup(*config_file)
			if err != nil {
				return err
			}
			g, err := LoadGraph(cmd.Context(), config)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(NewGraphInfoResponse(g), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
	return cmd
}
