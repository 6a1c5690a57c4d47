// Command generate renders a landing page from a briefing without running the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/app"
	"github.com/landingforge/landingforge/internal/config"
	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/pipeline"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	cyan   = color.New(color.FgCyan, color.Bold)
	dim    = color.New(color.Faint)
)

// imageFlags collects repeated -image slot=url values.
type imageFlags map[domain.ImageSlot]string

func (f imageFlags) String() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, string(k)+"="+v)
	}
	return strings.Join(parts, ",")
}

func (f imageFlags) Set(v string) error {
	slot, src, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(src) == "" {
		return fmt.Errorf("expected slot=url, got %q", v)
	}
	s := domain.ImageSlot(strings.TrimSpace(slot))
	if !s.IsValid() {
		return fmt.Errorf("unknown image slot %q", slot)
	}
	f[s] = strings.TrimSpace(src)
	return nil
}

func main() {
	_ = godotenv.Load()

	prompt := flag.String("prompt", "", "Business briefing text")
	briefFile := flag.String("file", "", "Read the briefing from a file (- for stdin)")
	outDir := flag.String("out", ".", "Output directory")
	inline := flag.Bool("inline", false, "Embed images as data URIs so the page works offline")
	timeout := flag.Duration("timeout", 0, "Generation timeout (default: PIPELINE_TIMEOUT)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	images := imageFlags{}
	flag.Var(images, "image", "Custom image as slot=url (repeatable), e.g. logo=https://...")
	flag.Parse()

	text, err := readBriefing(*prompt, *briefFile, flag.Args())
	if err != nil {
		red.Printf("✗ %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.LoadWithDefaults()
	if err != nil {
		red.Printf("✗ Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.LLM.APIKey == "" {
		red.Println("✗ LLM_API_KEY not set")
		fmt.Println("  Add it to .env file or set environment variable")
		os.Exit(1)
	}
	if *timeout > 0 {
		cfg.Pipeline.Timeout = *timeout
	}

	// Setup logger
	var logger *zap.Logger
	if *verbose {
		logger = app.NewLogger(config.EnvDevelopment, "debug")
	} else {
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	stack, err := app.NewStack(cfg, nil, nil, logger)
	if err != nil {
		red.Printf("✗ %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cyan.Println("LandingForge")
	dim.Printf("  model %s · %d stages\n\n", stack.LLM.Model(), len(pipeline.Stages))

	bar := progressbar.NewOptions(len(pipeline.Stages),
		progressbar.OptionSetDescription("  Starting..."),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	progress := func(stage pipeline.Stage, n, total int) {
		bar.Describe(fmt.Sprintf("  %-16s", stage))
		_ = bar.Set(n - 1)
	}

	res, err := stack.Orchestrator.Generate(ctx, pipeline.Request{Prompt: text, CustomImages: images}, progress)
	_ = bar.Finish()
	if err != nil {
		red.Println("✗ Generation failed")
		if appErr, ok := domain.AsAppError(err); ok {
			fmt.Printf("  %s\n", appErr.Message)
			if stage, ok := appErr.Metadata["stage"].(string); ok {
				dim.Printf("  stage: %s\n", stage)
			}
		}
		if *verbose {
			dim.Printf("  %v\n", err)
		}
		os.Exit(1)
	}

	html := res.HTML
	if *inline {
		yellow.Println("  Inlining images...")
		html, err = inlinePage(ctx, stack, res)
		if err != nil {
			red.Printf("✗ Inlining images failed: %v\n", err)
			os.Exit(1)
		}
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		red.Printf("✗ %v\n", err)
		os.Exit(1)
	}
	path := filepath.Join(*outDir, domain.SafeFileName(res.Profile.Title))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		red.Printf("✗ Writing %s: %v\n", path, err)
		os.Exit(1)
	}

	green.Printf("✓ %s\n", res.Profile.Title)
	fmt.Printf("  business   %s (%s)\n", res.Profile.BusinessName, res.Profile.BusinessType)
	fmt.Printf("  template   %s\n", res.Profile.TemplateID)
	fmt.Printf("  assistant  %s\n", res.Profile.Sellerbot.Name)
	fmt.Printf("  file       %s (%d KB)\n", path, len(html)/1024)
	dim.Printf("  took %s\n", res.Duration.Round(100*time.Millisecond))
}

func readBriefing(prompt, file string, args []string) (string, error) {
	switch {
	case prompt != "":
		return prompt, nil
	case file == "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading briefing: %w", err)
		}
		return string(b), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	}
	return "", fmt.Errorf("no briefing given: use -prompt, -file or pass the text as arguments")
}

// inlinePage renders the profile again with slot images as data URIs, then embeds
// whatever product and gallery images remain in the markup.
func inlinePage(ctx context.Context, stack *app.Stack, res *pipeline.Result) (string, error) {
	slots, err := stack.Inliner.InlineAll(ctx, res.Images)
	if err != nil {
		return "", err
	}
	html, err := stack.Orchestrator.Rerender(ctx, res.Profile, "", slots)
	if err != nil {
		return "", err
	}
	return stack.Inliner.InlineHTML(ctx, html)
}
