package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jonboulle/clockwork"

	"github.com/swellmap/windlayer/config"
	"github.com/swellmap/windlayer/geo"
	"github.com/swellmap/windlayer/overlay"
	"github.com/swellmap/windlayer/store"
	"github.com/swellmap/windlayer/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	serverURL := flag.String("server", "", "Grid-weather base URL (overrides config)")
	lat := flag.Float64("lat", 36.95, "Initial center latitude")
	lon := flag.Float64("lon", -122.02, "Initial center longitude")
	zoom := flag.Float64("zoom", 7, "Initial zoom level")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	headless := flag.Bool("headless", false, "Run the fetch/advect loop without graphics")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Directory for CSV telemetry output")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *serverURL != "" {
		cfg.Weather.BaseURL = *serverURL
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		logger.Error("failed to set up output directory", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := output.Close(); err != nil {
			logger.Error("failed to write telemetry output", "error", err)
		}
	}()

	client := store.NewClient(cfg.Weather.BaseURL, cfg.Derived.FetchTimeout, logger)
	st := store.New(client, clockwork.NewRealClock(), logger, store.Options{
		Debounce:       cfg.Derived.Debounce,
		MaxAttempts:    cfg.Weather.MaxAttempts,
		InitialBackoff: cfg.Derived.InitialBackoff,
		MaxBackoff:     cfg.Derived.MaxBackoff,
		FetchTimeout:   cfg.Derived.FetchTimeout,
		BBoxKeyDigits:  cfg.Weather.BBoxKeyDigits,
	})
	defer st.Close()

	settleFrames := cfg.Screen.TargetFPS / 4 // a quarter second of quiet
	cam := geo.NewMapCamera(*lat, *lon, *zoom,
		float64(cfg.Screen.Width), float64(cfg.Screen.Height), settleFrames)

	ov := overlay.New(cam, st, cfg, rng, logger, output)
	defer ov.Close()

	logger.Info("starting wind layer",
		"seed", rngSeed,
		"server", cfg.Weather.BaseURL,
		"headless", *headless,
	)

	if *headless {
		ov.Headless = true
		ov.Kickstart()
		dt := 1.0 / float64(cfg.Screen.TargetFPS)
		for frame := 0; *maxFrames == 0 || frame < *maxFrames; frame++ {
			ov.BeginFrame()
			cam.Tick()
			ov.Update(dt)
			ov.EndFrame()
			time.Sleep(time.Duration(dt * float64(time.Second)))
		}
		return
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Wind Layer")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	ov.InitRenderers()
	ov.Kickstart()

	frame := 0
	for !rl.WindowShouldClose() {
		ov.BeginFrame()
		ov.HandleInput(cam)
		ov.Update(float64(rl.GetFrameTime()))

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 12, G: 22, B: 36, A: 255})
		ov.Draw()
		rl.EndDrawing()
		ov.EndFrame()

		frame++
		if *maxFrames > 0 && frame >= *maxFrames {
			break
		}
	}
}
