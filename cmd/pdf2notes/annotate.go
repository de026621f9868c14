package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-to-notes/internal/ai"
	"github.com/thywilljoshua/pdf-to-notes/internal/annotate"
	"github.com/thywilljoshua/pdf-to-notes/internal/logger"
	"github.com/thywilljoshua/pdf-to-notes/internal/render"
)

func annotateCmd() *cobra.Command {
	var courseName string
	var pages string
	var side string
	var marginRatio float64
	var dpi float64
	var force bool
	var cacheDir string
	var concurrency int
	var model string
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "annotate <input.pdf> <output.pdf>",
		Short: "Generate study notes for each slide and compose them beside the original pages",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.SetVerbose(verbose)

			def, err := loadDefaults(configPath)
			if err != nil {
				return err
			}
			// File-level defaults apply only where the flag was left alone.
			flags := cmd.Flags()
			if !flags.Changed("course-name") && def.CourseName != "" {
				courseName = def.CourseName
			}
			if !flags.Changed("side") && def.Side != "" {
				side = def.Side
			}
			if !flags.Changed("margin-ratio") && def.MarginRatio != 0 {
				marginRatio = def.MarginRatio
			}
			if !flags.Changed("dpi") && def.DPI != 0 {
				dpi = def.DPI
			}
			if !flags.Changed("cache-dir") && def.CacheDir != "" {
				cacheDir = def.CacheDir
			}
			if !flags.Changed("model") && def.Model != "" {
				model = def.Model
			}
			if !flags.Changed("concurrency") && def.Concurrency != 0 {
				concurrency = def.Concurrency
			}

			var generator ai.Generator = ai.Unavailable{}
			apiKey := os.Getenv("GOOGLE_API_KEY")
			if apiKey == "" {
				apiKey = os.Getenv("GEMINI_API_KEY")
			}
			if apiKey != "" {
				g, err := ai.NewGemini(cmd.Context(), apiKey, model)
				if err != nil {
					return err
				}
				generator = g
			}

			renderer, err := render.NewChrome(render.ChromeOptions{ExecPath: def.ChromePath})
			if err != nil {
				return err
			}
			defer renderer.Close()

			report, err := annotate.Run(cmd.Context(), args[0], args[1], annotate.Config{
				CourseName:  courseName,
				Pages:       pages,
				Side:        annotate.Side(side),
				MarginRatio: marginRatio,
				DPI:         dpi,
				CacheDir:    cacheDir,
				Force:       force,
				Concurrency: concurrency,
				Generator:   generator,
				Renderer:    renderer,
			})
			if err != nil {
				return err
			}

			b, _ := json.MarshalIndent(report, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			if n := len(report.Skipped); n > 0 {
				return fmt.Errorf("%w: %d of %d pages", annotate.ErrPartial,
					n, n+len(report.Annotated))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&courseName, "course-name", "", "course name used to tailor terminology in the notes")
	cmd.Flags().StringVar(&pages, "pages", "", "pages or ranges to annotate, e.g. '1,3-5' (default: all pages)")
	cmd.Flags().StringVar(&side, "side", "right", "side to place the notes column: left|right")
	cmd.Flags().Float64Var(&marginRatio, "margin-ratio", 1.0, "notes column width as a fraction of slide width")
	cmd.Flags().Float64Var(&dpi, "dpi", annotate.DefaultDPI, "pixel density used when rendering note panels")
	cmd.Flags().BoolVar(&force, "force", false, "requery the model even when a cached note exists")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "root directory for cached notes (default: .annot_cache)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "pages processed in parallel")
	cmd.Flags().StringVar(&model, "model", "", "generation model name (default: gemini-2.5-flash)")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML defaults file (default: ~/.pdf2notes.toml)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "print debug detail to stderr")
	return cmd
}
