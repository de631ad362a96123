// Command studynote generates study notes once from the command line and
// writes the requested exports next to each other.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"studynote-ai/internal/app"
	"studynote-ai/internal/config"
	"studynote-ai/internal/domain"
	"studynote-ai/internal/export"
	"studynote-ai/internal/input"
	"studynote-ai/internal/logger"
	"studynote-ai/internal/util"
	"studynote-ai/internal/validation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "studynote",
	Short: "Generate study notes, key terms and a quiz from a topic, a URL or an image",
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate notes once and write the chosen exports",
	Long: `Generates study notes from --image, --url or --topic (in that precedence)
and writes each requested export (txt, docx, pdf) to the output directory.`,
	RunE: runGenerate,
}

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the academic levels",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range domain.Levels() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-15s %s\n", l, l.Label())
		}
	},
}

func init() {
	generateCmd.Flags().String("topic", "", "study topic")
	generateCmd.Flags().String("url", "", "source web page")
	generateCmd.Flags().String("image", "", "path to a source image")
	generateCmd.Flags().String("level", "", "academic level (see the levels command)")
	generateCmd.Flags().StringSlice("formats", []string{"txt"}, "exports to write: txt, docx, pdf")
	generateCmd.Flags().String("out", ".", "output directory")
	generateCmd.Flags().Bool("print", false, "print the clipboard text to stdout")
	rootCmd.AddCommand(generateCmd, levelsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	topic, _ := cmd.Flags().GetString("topic")
	rawURL, _ := cmd.Flags().GetString("url")
	imagePath, _ := cmd.Flags().GetString("image")
	level, _ := cmd.Flags().GetString("level")
	formats, _ := cmd.Flags().GetStringSlice("formats")
	outDir, _ := cmd.Flags().GetString("out")
	printText, _ := cmd.Flags().GetBool("print")

	if err := run(cmd, cfg, topic, rawURL, imagePath, level, formats, outDir, printText); err != nil {
		logger.Get().Error("studynote failed", zap.Error(err))
		return err
	}
	return nil
}

func run(cmd *cobra.Command, cfg *config.Config, topic, rawURL, imagePath, rawLevel string, formats []string, outDir string, printText bool) error {
	log := logger.Get()

	validator := validation.NewValidator(cfg.Generation.MaxImageBytes)
	if errs := validator.ValidateLevel(rawLevel); len(errs) > 0 {
		return errs
	}
	defaultLevel, _ := domain.ParseLevel(cfg.Generation.DefaultLevel, domain.DefaultLevel)
	level, _ := domain.ParseLevel(rawLevel, defaultLevel)

	var exportFormats []export.Format
	for _, f := range formats {
		if strings.TrimSpace(f) == "" {
			continue
		}
		format, err := export.ParseFormat(f)
		if err != nil {
			return err
		}
		exportFormats = append(exportFormats, format)
	}

	var img *input.Image
	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		mimeType := http.DetectContentType(data)
		if errs := validator.ValidateImage(mimeType, len(data)); len(errs) > 0 {
			return errs
		}
		img = &input.Image{Name: filepath.Base(imagePath), MIMEType: mimeType, Data: data}
	}

	in, err := input.Collect(topic, rawURL, img)
	if err != nil {
		return err
	}

	services, err := app.Build(cfg, log)
	if err != nil {
		return err
	}
	defer services.Close()

	ctx := context.Background()
	sessionID := util.NewULID()

	resp, err := services.Notes.Generate(ctx, sessionID, in, level)
	if err != nil {
		return err
	}
	log.Info("Generated notes", zap.String("title", resp.Notes.Title), zap.String("source", resp.Source))

	if printText {
		text, err := services.Notes.Text(ctx, sessionID)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, format := range exportFormats {
		data, err := services.Notes.Export(ctx, sessionID, format)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, format.Filename())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Info("Wrote export", zap.String("path", path), zap.Int("bytes", len(data)))
	}
	return nil
}
