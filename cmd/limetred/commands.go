package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/limetred/limetred/internal/config"
	"github.com/limetred/limetred/internal/content"
	"github.com/limetred/limetred/internal/export"
	"github.com/limetred/limetred/internal/market"
	"github.com/limetred/limetred/internal/scene"
	"github.com/limetred/limetred/internal/sound"
	"github.com/limetred/limetred/internal/tui"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

var (
	imagePath string

	// frame
	frames     int
	frameW     int
	frameH     int
	pixelRatio float64
	svgOut     string
	live       bool
	plain      bool
	liveFor    time.Duration

	// simulate
	simFor   time.Duration
	asJSON   bool
	chartSVG string
	runs     int
)

func generatorFor(ctx context.Context, cfg *config.Config) content.Generator {
	return content.New(ctx, content.Config{
		APIKey:  cfg.Generator.APIKey,
		Model:   cfg.Generator.Model,
		Timeout: cfg.Generator.Timeout,
		Delay:   cfg.Generator.MockDelay,
	}, logger.Named("content"))
}

func readImage(path string) ([]byte, string, error) {
	if path == "" {
		return nil, "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	return data, http.DetectContentType(data), nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	img, mime, err := readImage(imagePath)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	player := sound.New(cfg.UI.Sound, logger.Named("sound"))
	defer player.Close()

	logger.Info("session started", zap.String("theme", cfg.UI.Theme), zap.Uint64("seed", cfg.Seed))
	return tui.Run(ctx, tui.Options{
		Config:    cfg,
		Generator: generatorFor(ctx, cfg),
		Logger:    logger,
		Sound:     player,
		Image:     img,
		ImageMIME: mime,
	})
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "generate an app record and print it as json",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			img, mime, err := readImage(imagePath)
			if err != nil {
				return err
			}
			gen := generatorFor(cmd.Context(), cfg)
			rec := gen.Generate(cmd.Context(), content.Request{
				Prompt:    strings.Join(args, " "),
				Image:     img,
				ImageMIME: mime,
			})

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "reference image attached to the prompt")
	return cmd
}

func newFrameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frame",
		Short: "render the wireframe scene without the TUI",
		RunE:  runFrame,
	}
	cmd.Flags().IntVar(&frames, "frames", 1, "frames to advance before the snapshot")
	cmd.Flags().IntVar(&frameW, "width", 100, "width in terminal cells")
	cmd.Flags().IntVar(&frameH, "height", 30, "height in terminal cells")
	cmd.Flags().Float64Var(&pixelRatio, "dpr", 1, "device pixel ratio for --svg")
	cmd.Flags().StringVar(&svgOut, "svg", "", "write the frame as svg instead of printing it")
	cmd.Flags().BoolVar(&plain, "plain", false, "print braille without colors")
	cmd.Flags().BoolVar(&live, "live", false, "animate in the terminal")
	cmd.Flags().DurationVar(&liveFor, "for", 5*time.Second, "how long --live runs")
	return cmd
}

func runFrame(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if frames < 1 {
		frames = 1
	}

	if svgOut != "" {
		svg := export.NewSVG()
		vp := scene.Viewport{Width: frameW * 8, Height: frameH * 16, PixelRatio: pixelRatio}
		r, _ := scene.Initialize(svg, vp)
		for i := 0; i < frames; i++ {
			r.RenderFrame()
		}
		f, err := os.Create(svgOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := svg.WriteTo(f); err != nil {
			return err
		}
		fmt.Printf("wrote %d lines to %s (profile %s, scale %.2f)\n", svg.Len(), svgOut, r.Profile().Name, r.Scale())
		return nil
	}

	canvas := scene.NewCanvas(frameW, frameH)
	r, _ := scene.Initialize(canvas, scene.TerminalViewport(frameW, frameH))
	bg := string(tui.GetTheme(cfg.UI.Theme).Background)
	draw := func() string {
		if plain {
			return canvas.String()
		}
		return canvas.Render(bg)
	}

	if !live {
		for i := 0; i < frames; i++ {
			r.RenderFrame()
		}
		fmt.Println(draw())
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), liveFor)
	defer cancel()

	fmt.Print(hideCursor)
	defer fmt.Print(showCursor)
	r.Start(ctx, cfg.Scene.FPS, nil, func(f scene.Frame) {
		fmt.Print(clearScreen + draw())
	})
	<-ctx.Done()
	r.Teardown()
	fmt.Println()
	logger.Debug("live frame finished", zap.Uint64("frames", uint64(r.Clock())))
	return nil
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "run the market simulation headless and chart it",
		RunE:  runSimulate,
	}
	cmd.Flags().DurationVar(&simFor, "for", 10*time.Minute, "simulated time to run")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the final snapshot as json")
	cmd.Flags().StringVar(&chartSVG, "svg", "", "write the final market-cap window as svg")
	cmd.Flags().IntVar(&runs, "runs", 1, "run an ensemble of consecutive seeds and summarise graduation")
	return cmd
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if runs > 1 {
		return runEnsemble(cmd.Context(), cfg)
	}
	opts := []market.Option{market.WithLogger(logger.Named("market"))}
	if cfg.Seed != 0 {
		opts = append(opts, market.WithRand(market.NewRand(cfg.Seed)))
	}
	eng, err := market.NewEngine(cfg.Params(), opts...)
	if err != nil {
		return err
	}
	defer eng.Stop()

	var history []float64
	graduatedAt := time.Duration(-1)
	var elapsed time.Duration
	step := cfg.Market.MarketCapInterval
	unsubscribe := eng.Subscribe(func(s market.Snapshot) {
		if n := len(history); n == 0 || history[n-1] != s.MarketCap {
			history = append(history, s.MarketCap)
		}
		if s.Graduated && graduatedAt < 0 {
			graduatedAt = elapsed + step
		}
	})
	defer unsubscribe()

	for elapsed = 0; elapsed < simFor; elapsed += step {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		eng.Elapse(step)
	}
	snap := eng.Snapshot()

	if chartSVG != "" {
		if err := os.WriteFile(chartSVG, []byte(export.MarketChartSVG(snap.Window, 800, 300, "#84cc16")), 0644); err != nil {
			return err
		}
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	if len(history) > 1 {
		fmt.Println(asciigraph.Plot(history,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("market cap over %s", simFor))))
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "market cap\t$%s\n", humanize.CommafWithDigits(snap.MarketCap, 2))
	fmt.Fprintf(w, "bonding curve\t%.1f%%\n", snap.Progress)
	if graduatedAt >= 0 {
		fmt.Fprintf(w, "graduated\tafter %s\n", graduatedAt)
	}
	fmt.Fprintf(w, "sell tax\t%dm remaining\n", snap.SellTaxMinutes)
	fmt.Fprintf(w, "keys\t%s sold @ %.4f SOL\n", humanize.Comma(int64(snap.KeysSold)), snap.KeyPrice)
	return w.Flush()
}

func runEnsemble(ctx context.Context, cfg *config.Config) error {
	start := cfg.Seed
	if start == 0 {
		start = uint64(time.Now().UnixNano())
	}
	results, err := market.NewEnsemble(cfg.Params(), runs, start).Run(ctx, simFor)
	if err != nil {
		return err
	}
	times := market.GraduationTimes(results)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tMARKET CAP\tKEYS SOLD\tGRADUATED")
	for _, r := range results {
		grad := "-"
		if r.Graduated {
			grad = r.GraduatedAt.String()
		}
		fmt.Fprintf(w, "%d\t$%s\t%d\t%s\n", r.Seed, humanize.CommafWithDigits(r.Final.MarketCap, 0), r.Final.KeysSold, grad)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d/%d runs graduated within %s", len(times), len(results), simFor)
	if len(times) > 0 {
		fmt.Printf(" (fastest %s, median %s, slowest %s)", times[0], times[len(times)/2], times[len(times)-1])
	}
	fmt.Println()
	return nil
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available market presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMARKET CAP\tMAX STEP\tKEYS\tSELL TAX")
			for _, name := range config.ListPresets() {
				m := config.GetPreset(name).Market
				fmt.Fprintf(w, "%s\t$%s\t%s\t%d @ %.4f\t%dm\n",
					name, humanize.Comma(int64(m.InitialMarketCap)), humanize.Ftoa(m.MaxIncrement),
					m.KeysSold, m.KeyPrice, m.SellTaxMinutes)
			}
			return w.Flush()
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("config written to %s\n", args[0])
			return nil
		},
	}
}
