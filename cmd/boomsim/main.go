// Command boomsim runs camera rigs headless against a shared collision scene
// and reports how far the lagged camera trails its target.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/milk9111/camboom/ecs"
	"github.com/milk9111/camboom/ecs/entity"
	"github.com/milk9111/camboom/ecs/system"
	"github.com/milk9111/camboom/metrics"
	"github.com/milk9111/camboom/physics"
	"github.com/milk9111/camboom/prefabs"
	"golang.org/x/sync/errgroup"
)

type options struct {
	rig      string
	rigs     int
	ticks    int
	dt       float64
	jitter   float64
	plotPath string
	metrics  string
	seed     uint64
	verbose  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.rig, "rig", "rig.yaml", "rig spec in prefabs/")
	flag.IntVar(&opts.rigs, "rigs", 8, "number of rigs to run in parallel")
	flag.IntVar(&opts.ticks, "ticks", 1200, "ticks per rig")
	flag.Float64Var(&opts.dt, "dt", 1.0/60.0, "nominal time step in seconds")
	flag.Float64Var(&opts.jitter, "jitter", 0.5, "random time step variation as a fraction of -dt")
	flag.StringVar(&opts.plotPath, "plot", "", "write a lag error plot to this png")
	flag.StringVar(&opts.metrics, "metrics", "", "serve prometheus metrics on this address and wait for a signal")
	flag.Uint64Var(&opts.seed, "seed", 1, "random seed for time step jitter")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	if opts.rigs <= 0 || opts.ticks <= 0 || opts.dt <= 0 {
		return fmt.Errorf("-rigs, -ticks and -dt must be positive")
	}
	spec, err := prefabs.LoadRigSpec(opts.rig)
	if err != nil {
		return fmt.Errorf("loading rig: %w", err)
	}

	booms := metrics.NewBooms()
	var srv *http.Server
	if opts.metrics != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", booms.Handler())
		srv = &http.Server{Addr: opts.metrics, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			slog.Info("metrics server starting", "addr", opts.metrics)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server", "err", err)
			}
		}()
		defer srv.Close()
	}

	scene := buildScene()
	slog.Info("scene built", "shapes", scene.Len(), "rigs", opts.rigs, "ticks", opts.ticks)

	results := make([]*recorder, opts.rigs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	start := time.Now()
	for i := range results {
		rec := &recorder{next: booms}
		results[i] = rec
		rng := rand.New(rand.NewPCG(opts.seed, uint64(i)))
		g.Go(func() error {
			return simulate(gctx, opts, spec, scene, rec, rng)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("simulation done", "elapsed", time.Since(start).Round(time.Millisecond))

	report(os.Stdout, spec.Name, results)

	if opts.plotPath != "" {
		if err := writePlot(opts.plotPath, spec.Name, results); err != nil {
			return fmt.Errorf("writing plot: %w", err)
		}
		slog.Info("plot written", "path", opts.plotPath)
	}

	if srv != nil {
		slog.Info("serving metrics until interrupted", "addr", opts.metrics)
		<-ctx.Done()
	}
	return nil
}

// simulate runs one rig in its own world. Worlds are not shared between
// goroutines; only the scene is.
func simulate(ctx context.Context, opts options, spec prefabs.RigSpec, scene *physics.Scene, rec *recorder, rng *rand.Rand) error {
	logger := slog.Default().With("rig", spec.Name)
	w := ecs.NewWorld()
	if _, err := entity.NewCameraRig(w, opts.rig, spec, scene, logger); err != nil {
		return err
	}

	systems := system.NewRigSystems(nil, rec, logger)
	sched := systems.Scheduler()
	for tick := 0; tick < opts.ticks; tick++ {
		if tick%64 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		dt := opts.dt * (1 + opts.jitter*(2*rng.Float64()-1))
		sched.Tick(w, max(dt, 0))
	}
	return nil
}
