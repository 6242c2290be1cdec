// spanbot sends a daily Spanish vocabulary digest and adapts its
// difficulty from free-text reply feedback.
//
// Usage:
//
//	spanbot send [--dry-run] [--test]   # select words and deliver (default)
//	spanbot feedback [--days N]         # check the inbox for feedback replies
//	spanbot import --file words.xlsx    # load vocabulary into the catalog DB
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/example/spanbot/internal/catalog"
	"github.com/example/spanbot/internal/config"
	"github.com/example/spanbot/internal/email"
	"github.com/example/spanbot/internal/excel"
	"github.com/example/spanbot/internal/selector"
	"github.com/example/spanbot/internal/session"
	"github.com/example/spanbot/internal/state"
	"github.com/example/spanbot/internal/telegram"
)

func main() {
	log.SetFlags(log.LstdFlags)

	args := os.Args[1:]
	cmd := "send"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd = args[0]
		args = args[1:]
	}

	var code int
	switch cmd {
	case "send":
		code = runSend(args)
	case "feedback":
		code = runFeedback(args)
	case "import":
		code = runImport(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (expected send, feedback or import)\n", cmd)
		code = 2
	}
	os.Exit(code)
}

// newSource builds the configured catalog source. The returned closer is
// a no-op for file catalogs.
func newSource(cfg *config.Config) (catalog.Source, func(), error) {
	switch cfg.CatalogSource {
	case config.CatalogDB:
		db, err := catalog.OpenDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		return catalog.NewDBSource(db), func() { db.Close() }, nil
	default:
		return catalog.NewFileSource(cfg.VerbsFile, cfg.AdjectivesFile), func() {}, nil
	}
}

func newDeliverer(cfg *config.Config) (session.Deliverer, error) {
	if cfg.Delivery == config.DeliveryTelegram {
		return telegram.NewDeliverer(cfg)
	}
	return email.NewSender(cfg), nil
}

func runSend(args []string) int {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "select words without sending")
	testMode := fs.Bool("test", false, "mark the digest as a test send")
	fs.Parse(args)

	log.Println("Daily Spanish Vocabulary Bot")

	cfg := config.Load()
	if !*dryRun {
		// A dry run touches neither the transport nor the state file,
		// so transport credentials aren't required for it.
		if err := cfg.Validate(); err != nil {
			log.Printf("Configuration error: %v", err)
			return 1
		}
	}

	source, closeSource, err := newSource(cfg)
	if err != nil {
		log.Printf("Catalog error: %v", err)
		return 1
	}
	defer closeSource()

	orch := &session.Orchestrator{
		Store:    state.NewFileStore(cfg.HistoryFile),
		Source:   source,
		Selector: selector.New(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
	if !*dryRun {
		deliverer, err := newDeliverer(cfg)
		if err != nil {
			log.Printf("Delivery setup error: %v", err)
			return 1
		}
		orch.Deliverer = deliverer
	}

	result, err := orch.SendCycle(*dryRun, *testMode)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrDelivery):
			log.Printf("Failed to deliver digest: %v", err)
		case errors.Is(err, catalog.ErrCatalogLoad):
			log.Printf("Catalog error: %v", err)
		case errors.Is(err, selector.ErrNoCandidates):
			log.Printf("Selection error: %v", err)
		case errors.Is(err, state.ErrStateIO):
			log.Printf("State error: %v", err)
		default:
			log.Printf("Unexpected error: %v", err)
		}
		return 1
	}

	log.Printf("Selected verb: %s (%s), difficulty %.1f",
		result.Verb.Spanish, result.Verb.English, result.Verb.Difficulty)
	log.Printf("Selected adjective: %s (%s), difficulty %.1f",
		result.Adjective.Spanish, result.Adjective.English, result.Adjective.Difficulty)
	log.Printf("Current difficulty: %.1f (%s)", result.Difficulty, result.DifficultyName)

	if *dryRun {
		log.Println("Dry run complete - nothing sent, history unchanged")
		return 0
	}

	log.Println("Digest delivered and history updated")
	return 0
}

func runFeedback(args []string) int {
	fs := flag.NewFlagSet("feedback", flag.ExitOnError)
	days := fs.Int("days", 2, "how many days back to check for replies")
	fs.Parse(args)

	log.Println("Feedback check - Daily Spanish Vocabulary Bot")

	cfg := config.Load()
	if err := cfg.ValidateFeedback(); err != nil {
		log.Printf("Configuration error: %v", err)
		return 1
	}

	orch := &session.Orchestrator{
		Store: state.NewFileStore(cfg.HistoryFile),
		Inbox: email.NewInbox(cfg),
	}

	since := time.Now().AddDate(0, 0, -*days)
	result, err := orch.FeedbackCycle(since)
	if err != nil {
		log.Printf("Feedback check failed: %v", err)
		return 1
	}

	if !result.Found {
		log.Println("No feedback found in recent replies")
		log.Printf("Replies must come from %s, within the last %d day(s), and contain a keyword like easy, hard or perfect", cfg.RecipientEmail, *days)
		return 0
	}

	log.Printf("Feedback %q applied, new difficulty level: %.1f (%s)",
		result.Keyword, result.NewLevel, selector.DifficultyName(result.NewLevel))
	return 0
}

func runImport(args []string) int {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "Excel or CSV file to import")
	sheet := fs.String("sheet", "Sheet1", "sheet name for Excel files")
	startRow := fs.Int("start-row", 2, "first data row (1-based)")
	fs.Parse(args)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "import requires --file")
		return 2
	}

	cfg := config.Load()
	db, err := catalog.OpenDB(cfg)
	if err != nil {
		log.Printf("Catalog database error: %v", err)
		return 1
	}
	defer db.Close()

	importCfg := excel.DefaultImportConfig()
	importCfg.FilePath = *file
	importCfg.SheetName = *sheet
	importCfg.StartRow = *startRow

	result, err := excel.ImportWords(catalog.NewDBSource(db), importCfg)
	if err != nil {
		log.Printf("Import failed: %v", err)
		return 1
	}

	log.Printf("Processed %d rows: %d created, %d updated, %d skipped",
		result.TotalProcessed, result.Created, result.Updated, result.Skipped)
	for _, e := range result.Errors {
		log.Printf("  %s", e)
	}
	if len(result.Errors) > 0 {
		return 1
	}
	return 0
}
