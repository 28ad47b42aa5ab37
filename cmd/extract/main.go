package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"referral-finder/internal/app"
	"referral-finder/internal/config"
	"referral-finder/internal/domain"
	"referral-finder/internal/domain/job"
	"referral-finder/internal/scraper"

	"github.com/joho/godotenv"
)

type line struct {
	URL     string       `json:"url"`
	Job     *job.Posting `json:"job,omitempty"`
	Partial *job.Posting `json:"partialData,omitempty"`
	Error   string       `json:"error,omitempty"`
}

func main() {
	urls := flag.String("urls", "", "comma separated job posting URLs; reads stdin, one per line, when empty")
	workers := flag.Int("workers", 4, "concurrent extractions")
	rps := flag.Int("rps", 2, "extractions started per second, 0 for unlimited")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("failed to read .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.NewExtractionContainer(ctx, cfg, log.Default())
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	targets := collectURLs(*urls)
	if len(targets) == 0 {
		log.Fatalf("provide -urls or URLs on stdin")
	}

	pool := scraper.NewWorkerPool(c.Extractor, *workers, len(targets))
	pool.SetRateLimit(*rps)
	results := pool.Run(ctx)
	for _, u := range targets {
		pool.Submit(u)
	}
	pool.Close()

	enc := json.NewEncoder(os.Stdout)
	failed := 0
	for res := range results {
		out := line{URL: res.URL}
		if res.Err != nil {
			failed++
			out.Error = res.Err.Error()
			if p, ok := domain.PartialPosting(res.Err); ok {
				out.Partial = &p
			}
		} else {
			p := res.Posting
			out.Job = &p
		}
		if err := enc.Encode(out); err != nil {
			log.Fatalf("write result: %v", err)
		}
	}

	log.Printf("[Extract] batch done | total=%d failed=%d", len(targets), failed)
	if failed > 0 {
		_ = c.Close()
		os.Exit(1)
	}
}

func collectURLs(flagValue string) []string {
	var raw []string
	if strings.TrimSpace(flagValue) != "" {
		raw = strings.Split(flagValue, ",")
	} else {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			raw = append(raw, sc.Text())
		}
	}

	out := make([]string, 0, len(raw))
	for _, u := range raw {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
