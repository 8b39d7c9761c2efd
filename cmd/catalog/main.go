package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"academy-catalog/internal/aggregate"
	"academy-catalog/internal/config"
)

func main() {
	var (
		source  = flag.String("source", "all", "provider selector: all, youtube or cloudflare")
		course  = flag.String("course", "", "course id: print its chapters and videos instead of the course list")
		timeout = flag.Duration("timeout", 5*time.Minute, "overall deadline")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sys := aggregate.FromConfig(config.Load(), logger)

	if *course != "" {
		printCourse(ctx, sys, *course)
		return
	}

	courses, err := sys.Facade.ListCourses(ctx, aggregate.Selector(*source))
	if err != nil {
		log.Fatal(err)
	}
	for _, c := range courses {
		fmt.Printf("%s\t%s\t%dmin\t%s\t%s\n", c.ID, c.Title, c.Duration, c.Category, c.Difficulty)
	}
	log.Printf("listed %d courses (source=%s)", len(courses), *source)
}

func printCourse(ctx context.Context, sys *aggregate.System, courseID string) {
	chapters, err := sys.Facade.ListChapters(ctx, courseID)
	if err != nil {
		log.Fatal(err)
	}
	videos, err := sys.Facade.ListVideos(ctx, courseID)
	if err != nil {
		log.Fatal(err)
	}

	for _, ch := range chapters {
		fmt.Printf("chapter %d\t%s\t%s\n", ch.Order, ch.ID, ch.Title)
		for _, v := range videos {
			if v.ChapterID != ch.ID {
				continue
			}
			fmt.Printf("  %d\t%s\t%s\t%ds\n", v.Order, v.ID, v.Title, v.Duration)
		}
	}
	log.Printf("course %s: %d chapters, %d videos", courseID, len(chapters), len(videos))
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		log.Fatal(err)
	}
	return logger
}
