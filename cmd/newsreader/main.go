package main

import (
	"fmt"
	"log/slog"
	"os"
)

var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

var subcommands = map[string]func([]string) error{
	"articles": cmdArticles,
	"read":     cmdRead,
	"insight":  cmdInsight,
	"speak":    cmdSpeak,
	"briefing": cmdBriefing,
	"publish":  cmdPublish,
	"serve":    cmdServe,
}

func run(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		printUsage()
		return 0
	}

	sub := args[0]
	if sub == "version" {
		fmt.Println(version)
		return 0
	}
	cmd, ok := subcommands[sub]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n\n", sub)
		printUsage()
		return 2
	}
	if err := cmd(args[1:]); err != nil {
		slog.Error(sub+" failed", "err", err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `newsreader %s

Usage:
  newsreader <subcommand> [flags]

Subcommands:
  articles  List catalog articles
  read      Stream a reading task (summarize, explain, ask, ...) for an article
  insight   Print structured insights (tags, quiz, timeline, ...) as JSON
  speak     Read an article or text aloud to an MP3 file
  briefing  Write the daily news briefing script (and optional audio)
  publish   Upload a briefing to S3 and refresh latest/
  serve     Run the HTTP API
  version   Print version

Run "newsreader <subcommand> -h" for flags.
`, version)
}
