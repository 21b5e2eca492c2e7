// Command bookcharm generates a printable closed-book keyring charm as a
// binary STL, with an optional material sidecar and PNG preview.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmforge/bookcharm/assemble"
	"github.com/charmforge/bookcharm/book"
	"github.com/charmforge/bookcharm/internal/config"
	"github.com/charmforge/bookcharm/internal/logger"
	"github.com/charmforge/bookcharm/render"
	"github.com/charmforge/bookcharm/solid"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bookcharm:", err)
		if errors.Is(err, solid.ErrInvalidParameter) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "YAML config file (flags override it)")
		out        = flag.String("o", "", "output STL path")
		preview    = flag.String("preview", "", "write a PNG preview to this path")
		material   = flag.String("material", "", "write a YAML material sidecar to this path")
		cells      = flag.Int("cells", 0, "surface extraction cells along the longest axis")
		scale      = flag.Float64("scale", 0, "uniform output scale, 1 keeps millimeters")
		engrave    = flag.Bool("engrave", false, "engrave the cover text instead of raising it")
		label      = flag.String("text", "", "cover text, \\n separates lines")
		logLevel   = flag.String("log-level", "", "log level: debug, info, warn, error")
		logFile    = flag.String("log-file", "", "also log to this file")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	// Flags are the highest priority layer.
	if *out != "" {
		cfg.Output.Path = *out
	}
	if *preview != "" {
		cfg.Output.PreviewPath = *preview
	}
	if *material != "" {
		cfg.Output.MaterialPath = *material
	}
	if *cells != 0 {
		cfg.Book.Cells = *cells
	}
	if *scale != 0 {
		cfg.Output.UnitScale = *scale
	}
	if *engrave {
		cfg.Book.Engrave = true
	}
	if *label != "" {
		cfg.Book.Text = *label
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Logging.LogFile = *logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer log.Sync()

	art, err := book.Build(cfg.Book, cfg.Output.UnitScale, log)
	if err != nil {
		return err
	}
	for _, st := range assemble.FailedSteps(art.Steps) {
		log.Warn("assembly step did not apply",
			zap.String("operand", st.Operand),
			zap.Stringer("mode", st.Mode),
			zap.Error(st.Err))
	}

	mesh := art.Solid.Mesh()
	f, err := os.Create(cfg.Output.Path)
	if err != nil {
		return err
	}
	if err := render.WriteSTL(f, mesh.Triangles()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info("wrote mesh",
		zap.String("path", cfg.Output.Path),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("faces", mesh.FaceCount()),
		zap.Float64("volume", mesh.Volume()))

	if cfg.Output.MaterialPath != "" {
		if err := config.SaveMaterial(cfg.Output.MaterialPath, art.Material); err != nil {
			return fmt.Errorf("material sidecar: %w", err)
		}
		log.Info("wrote material", zap.String("path", cfg.Output.MaterialPath))
	}

	if cfg.Output.PreviewPath != "" {
		err := render.SavePNG(cfg.Output.PreviewPath, mesh.Triangles(), render.DefaultView, "2962FF")
		if err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		log.Info("wrote preview", zap.String("path", cfg.Output.PreviewPath))
	}
	return nil
}
