package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"runtime"

	"LotusPond/internal/config"
	"LotusPond/internal/engine"
	"LotusPond/internal/loader"
	"LotusPond/internal/logger"
	"LotusPond/internal/pond"
	"LotusPond/internal/renderer"

	"go.uber.org/zap"
)

// glfw must own the main OS thread
func init() {
	runtime.LockOSThread()
}

func main() {
	path := flag.String("config", config.DefaultPath, "path to the TOML config file")
	debug := flag.Bool("debug", false, "draw wireframes")
	flag.Parse()

	logger.Init()
	defer logger.Sync()

	cfg, err := config.Load(*path)
	switch {
	case errors.Is(err, config.ErrNoConfig):
		logger.Log.Info("No config file, using defaults", zap.String("path", *path))
	case err != nil:
		logger.Log.Warn("Config load failed, using defaults", zap.String("path", *path), zap.Error(err))
	}
	if !logger.SetLevel(cfg.Log.Level) {
		logger.Log.Warn("Unknown log level", zap.String("level", cfg.Log.Level))
	}
	renderer.Debug = *debug

	p := pond.Build(cfg)
	manager := loader.NewManager()
	ldr := loader.NewLoader(manager, cfg.Assets.LoaderWorkers)

	window := engine.NewWindow(cfg.Window)
	manager.OnProgress(window.SetProgress)

	loop := engine.NewLoop(p, ldr, renderer.NewOpenGLRenderer(), window)
	loop.DayNight.ArmReveal(manager.Ready(), window)
	p.Load(ldr, cfg.Assets)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		err := config.Watch(ctx, *path, func(next config.Config) {
			logger.SetLevel(next.Log.Level)
			loop.Reconfigure(next)
		})
		if err != nil {
			logger.Log.Warn("Config watch disabled", zap.Error(err))
		}
	}()

	if err := window.Run(loop); err != nil {
		logger.Log.Error("Window failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
