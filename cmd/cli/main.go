package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"textdigest/internal/analyze"
	"textdigest/internal/config"
	"textdigest/internal/extract"
	"textdigest/internal/inference"
)

func main() {
	var (
		filePath  = flag.String("file", "", "path to a .txt or .pdf file to analyze")
		rawURL    = flag.String("url", "", "URL of a web page to analyze")
		task      = flag.String("task", analyze.TaskAnalyze, "task to run: summarize, keywords, qa or analyze")
		questions = flag.String("questions", "", "questions for the qa task, separated by ';'")
		minLength = flag.Int("min", 0, "minimum summary length in words")
		maxLength = flag.Int("max", 0, "maximum summary length in words")
		format    = flag.String("format", "", "summary format: paragraph or bullets")
		keywords  = flag.Int("keywords", 0, "number of keywords to extract")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	provider, err := inference.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create provider: %v", err)
	}

	resolver, err := extract.NewResolver(cfg.MinInputChars, time.Duration(cfg.FetchTimeout)*time.Second)
	if err != nil {
		log.Fatalf("Failed to create resolver: %v", err)
	}

	input := extract.Input{URL: *rawURL}
	if *filePath != "" {
		f, err := os.Open(*filePath)
		if err != nil {
			log.Fatalf("Failed to open file: %v", err)
		}
		defer f.Close()
		input.File = f
		input.Filename = *filePath
	} else if *rawURL == "" {
		// No file and no URL, read the text from stdin
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("Failed to read stdin: %v", err)
		}
		input.Text = string(data)
	}

	ctx := context.Background()

	text, err := resolver.Resolve(ctx, input)
	if err != nil {
		log.Fatalf("Failed to resolve input: %v", err)
	}

	var questionList []string
	for _, q := range strings.Split(*questions, ";") {
		if q = strings.TrimSpace(q); q != "" {
			questionList = append(questionList, q)
		}
	}

	analyzer := analyze.New(provider, nil)
	result, err := analyzer.Analyze(ctx, analyze.Request{
		Text:      text,
		Task:      *task,
		Questions: questionList,
		Options: analyze.Options{
			MinLength:    *minLength,
			MaxLength:    *maxLength,
			Format:       *format,
			KeywordCount: *keywords,
		},
	})
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if result.Summary != "" {
		fmt.Println("Summary:")
		fmt.Println(result.Summary)
	}
	if result.Keywords != "" {
		fmt.Println("Keywords:")
		fmt.Println(result.Keywords)
	}
	if len(result.Answers) > 0 {
		fmt.Println("Answers:")
		for _, a := range result.Answers {
			fmt.Println(a)
		}
	}
	if result.Metrics != nil {
		m := result.Metrics
		fmt.Printf("Metrics: input %d words, summary %d words, compression %.1f%%, readability %.1f\n",
			m.InputWordCount, m.SummaryWordCount, m.CompressionRate, m.Readability)
	}
}
