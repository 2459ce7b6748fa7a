package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	cfgpkg "newsreader/internal/config"
)

// newsreader articles
func cmdArticles(args []string) error {
	var cf commonFlags
	var category string
	var asJSON bool
	fs := flag.NewFlagSet("articles", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.StringVar(&category, "category", "", "Only list articles in this category")
	fs.BoolVar(&asJSON, "json", false, "Print full articles as JSON")
	if done, err := parseFlags(fs, args); done || err != nil {
		return err
	}
	cfg, err := loadConfig(cf, cfgpkg.Overrides{})
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	list := cat.Visible(category, cfg.Settings())
	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tTITLE")
	for _, a := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", a.ID, a.Category, a.Title)
	}
	return tw.Flush()
}
