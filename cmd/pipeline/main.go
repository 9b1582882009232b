package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhg/docflow/internal/bootstrap"
	"github.com/dhg/docflow/internal/config"
	"github.com/dhg/docflow/internal/core/domain"
	"github.com/dhg/docflow/internal/core/usecase"
	"github.com/dhg/docflow/internal/infrastructure/extractor"
	"github.com/dhg/docflow/internal/observability/logging"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if err := run(cfg, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func run(cfg config.Config, command string, args []string) error {
	flags := flag.NewFlagSet(command, flag.ExitOnError)
	var (
		dryRun      = flags.Bool("dry-run", false, "report what would be processed without writing")
		timeout     = flags.Duration("timeout", 30*time.Minute, "overall command timeout")
		name        = flags.String("name", "", "display name (roots add)")
		description = flags.String("description", "", "description (roots add)")
		verbose     = flags.Bool("verbose", false, "debug logging")
	)

	// "roots" takes a subcommand before the flags.
	var sub string
	if command == "roots" {
		if len(args) == 0 {
			return fmt.Errorf("usage: roots <list|add|remove|check> [flags] [folder-id]")
		}
		sub, args = args[0], args[1:]
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *verbose {
		cfg.LogLevel = "debug"
	}
	logger := logging.NewJSONLogger("docflow", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer app.Close()

	switch command {
	case "roots":
		return runRoots(ctx, app, sub, flags.Args(), *name, *description)
	case "sync":
		result, err := app.SyncUC.Run(ctx, *dryRun)
		if err != nil {
			return err
		}
		fmt.Printf("folders=%d discovered=%d upserted=%d failed=%d\n",
			result.Folders, result.Discovered, result.Upserted, result.Failed)
		return nil
	case "extract":
		return runExtract(ctx, app, *dryRun)
	case "classify":
		return runClassify(ctx, app, *dryRun)
	case "promote":
		return runPromote(ctx, app, *dryRun)
	case "run":
		result, err := app.RunAllUC.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Report())
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runRoots(ctx context.Context, app *bootstrap.App, sub string, args []string, name, description string) error {
	switch sub {
	case "list":
		roots, err := app.Roots.List(ctx)
		if err != nil {
			return err
		}
		for _, root := range roots {
			fmt.Printf("%s\t%s\t%s\n", root.FolderID, root.Name, root.Description)
		}
		return nil
	case "add":
		if len(args) != 1 {
			return fmt.Errorf("usage: roots add --name <name> [--description <text>] <folder-id>")
		}
		if name == "" {
			return fmt.Errorf("--name is required")
		}
		return app.Roots.Add(ctx, &domain.SyncRoot{
			FolderID:    args[0],
			Name:        name,
			Description: description,
		})
	case "remove":
		if len(args) != 1 {
			return fmt.Errorf("usage: roots remove <folder-id>")
		}
		return app.Roots.Remove(ctx, args[0])
	case "check":
		if len(args) != 1 {
			return fmt.Errorf("usage: roots check <folder-id>")
		}
		exists, err := app.Roots.Exists(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Println(exists)
		return nil
	default:
		return fmt.Errorf("unknown roots subcommand %q", sub)
	}
}

func runExtract(ctx context.Context, app *bootstrap.App, dryRun bool) error {
	if dryRun {
		docs, err := app.Sources.ListUnextracted(ctx, app.Pipeline.SupportedMimeTypes, app.Config.ExtractBatchSize)
		if err != nil {
			return err
		}
		fmt.Printf("would extract %d documents\n", len(docs))
		return nil
	}

	result, err := app.ExtractUC.Run(ctx)
	if err != nil {
		return err
	}

	// Hand successfully extracted documents to the worker for async
	// classification.
	for _, item := range result.Items {
		if item.Failed() {
			continue
		}
		if err := app.Queue.PublishClassifyRequested(ctx, item.SourceID); err != nil {
			fmt.Fprintf(os.Stderr, "queue classify request for %s: %v\n", item.SourceID, err)
		}
	}

	fmt.Println(usecase.RenderBatchReport("Extraction", result))
	return nil
}

func runClassify(ctx context.Context, app *bootstrap.App, dryRun bool) error {
	if dryRun {
		docs, err := app.Sources.ListUnclassified(ctx, app.Config.ClassifyBatchSize)
		if err != nil {
			return err
		}
		fmt.Printf("would classify %d documents\n", len(docs))
		return nil
	}

	result, err := app.ClassifyUC.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println(usecase.RenderBatchReport("Classification", result))
	return nil
}

func runPromote(ctx context.Context, app *bootstrap.App, dryRun bool) error {
	if dryRun {
		since := time.Now().UTC().AddDate(0, 0, -app.Config.PromotionWindowDays)
		docs, err := app.Sources.ListPromotionCandidates(ctx, since, 200)
		if err != nil {
			return err
		}
		fmt.Printf("would consider %d documents for promotion\n", len(docs))
		return nil
	}

	result, err := app.PromoteUC.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("transferred=%d skipped=%d failed=%d\n", result.Transferred, result.Skipped, result.Failed)
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `docflow - document ingestion and classification pipeline

Usage:
  pipeline roots <list|add|remove|check> [flags] [folder-id]
  pipeline sync     [--dry-run] [--timeout d] [--verbose]
  pipeline extract  [--dry-run] [--timeout d] [--verbose]
  pipeline classify [--dry-run] [--timeout d] [--verbose]
  pipeline promote  [--dry-run] [--timeout d] [--verbose]
  pipeline run      [--timeout d] [--verbose]

Supported extraction types: %v
`, extractor.SupportedMimeTypes())
}
