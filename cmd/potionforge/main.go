//go:build !lambda

// potionforge recommends which potions to brew from a stock of ingredients.
//
// Usage:
//
//	potionforge recommend [-config recommend.yml] [-json] [-verbose]
//	potionforge debug [-config debug.yml] [-scoring recommend.yml] [-json]
//	potionforge init [-config recommend.yml]
//	potionforge version
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"potionforge/internal/config"
	"potionforge/internal/logging"
	"potionforge/internal/pipeline"
	"potionforge/internal/recommend"
	"potionforge/internal/render"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

const usage = `Usage: potionforge <command> [flags]

Commands:
  recommend   Recommend recipes for the stock in a config file
  debug       Score hand-written recipes from a debug file
  init        Write an example recommend config
  version     Print the version

Environment (also read from .env):
  POTIONFORGE_CONFIG    default -config for recommend and init
  POTIONFORGE_VERBOSE   default -verbose

Run 'potionforge <command> -h' for command flags.
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "recommend":
		err = runRecommend(args)
	case "debug":
		err = runDebug(args)
	case "init":
		err = runInit(args)
	case "version", "-v", "--version":
		fmt.Printf("potionforge %s\n", Version)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", cmd, usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var se *recommend.StageError
		if errors.As(err, &se) {
			fmt.Fprintln(os.Stderr, "hint: the stock cannot satisfy the portfolio constraints; check departments and potions")
		}
		os.Exit(1)
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

func newFlagSet(name, help string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: potionforge %s [flags]\n\n%s\n\nFlags:\n", name, help)
		fs.PrintDefaults()
	}
	return fs
}

func runRecommend(args []string) error {
	fs := newFlagSet("recommend", "Enumerates every recipe the stock allows and picks the best portfolio.")
	path := fs.String("config", envDefault("POTIONFORGE_CONFIG", "recommend.yml"), "recommend config file")
	jsonOut := fs.Bool("json", false, "print the recommendation as JSON")
	verbose := fs.Bool("verbose", envBool("POTIONFORGE_VERBOSE"), "log solver progress")
	jsonLogs := fs.Bool("json-logs", false, "write logs as JSON lines")
	fs.Parse(args)

	logging.Setup(os.Stderr, *verbose, *jsonLogs)
	cfg, err := config.Resolve(*path)
	if err != nil {
		return err
	}
	res, err := pipeline.Run(cfg)
	if err != nil {
		return err
	}

	recipes := res.Recommendation.Recipes
	if *jsonOut {
		out, err := render.JSON(render.NewDocument(res.RunID, res.Candidates, recipes))
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Print(render.Summary(recipes))
	fmt.Println(render.Table(recipes))
	return nil
}

func runDebug(args []string) error {
	fs := newFlagSet("debug", "Scores each recipe in the file without filtering.")
	path := fs.String("config", "debug.yml", "debug file")
	scoringPath := fs.String("scoring", "", "score with the alchemists, market and branding of this recommend config")
	jsonOut := fs.Bool("json", false, "print the recipes as JSON")
	verbose := fs.Bool("verbose", envBool("POTIONFORGE_VERBOSE"), "log details")
	fs.Parse(args)

	logging.Setup(os.Stderr, *verbose, false)
	d, err := config.LoadDebug(*path)
	if err != nil {
		return err
	}
	combos, err := d.Combos()
	if err != nil {
		return fmt.Errorf("%s: %w", *path, err)
	}
	scoring, err := d.Scoring()
	if err != nil {
		return fmt.Errorf("%s: %w", *path, err)
	}
	if *scoringPath != "" {
		cfg, err := config.Resolve(*scoringPath)
		if err != nil {
			return err
		}
		scoring = cfg.Scoring
	}
	recipes, unmatched := pipeline.Debug(combos, &scoring)
	for _, i := range unmatched {
		fmt.Fprintf(os.Stderr, "recipe %d makes no potion\n", i+1)
	}

	if *jsonOut {
		out, err := render.JSON(render.NewDocument("", len(combos), recipes))
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Println(render.Table(recipes))
	return nil
}

func runInit(args []string) error {
	fs := newFlagSet("init", "Writes an annotated example recommend config.")
	path := fs.String("config", envDefault("POTIONFORGE_CONFIG", "recommend.yml"), "file to create")
	fs.Parse(args)

	if err := config.WriteExample(*path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", *path)
	return nil
}
