package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/justchokingaround/enjoi/internal/backend"
	"github.com/justchokingaround/enjoi/internal/backend/api"
	"github.com/justchokingaround/enjoi/internal/config"
	"github.com/justchokingaround/enjoi/internal/route"
	"github.com/justchokingaround/enjoi/internal/tui/styles"
)

var (
	errorLabel = lipgloss.NewStyle().Foreground(styles.OxocarbonRed).Bold(true)
	fieldLabel = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple).Bold(true)
	titleText  = lipgloss.NewStyle().Foreground(styles.OxocarbonBlue)
	linkText   = lipgloss.NewStyle().Foreground(styles.OxocarbonCyan)
	mutedText  = lipgloss.NewStyle().Foreground(styles.OxocarbonBase03)
)

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorLabel.Render("[ERROR]:")+" "+err.Error())
}

// versionCmd displays version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "enjoi version %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "Commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", date)
	},
}

// configCmd handles configuration operations
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := cfgFile
		if configPath == "" {
			configPath = config.DefaultConfigPath()
		}
		force, _ := cmd.Flags().GetBool("force")

		if err := config.WriteDefault(configPath, force); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Default configuration generated successfully at: %s\n", configPath)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Display configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			fmt.Fprintln(cmd.OutOrStdout(), cfgFile)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.DefaultConfigPath())
	},
}

func init() {
	configInitCmd.Flags().BoolP("force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// searchCmd prints search hits with their site links
var searchCmd = &cobra.Command{
	Use:   "search <text...>",
	Short: "Search anime by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		logger.Info("searching", "text", text)
		return runSearch(cmd.Context(), cmd.OutOrStdout(), api.NewClient(cfg, logger), cfg.API.SiteURL, text)
	},
}

// detailsCmd prints the detail record of a title
var detailsCmd = &cobra.Command{
	Use:   "details <title...>",
	Short: "Show details of an anime",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		return runDetails(cmd.Context(), cmd.OutOrStdout(), api.NewClient(cfg, logger), title)
	},
}

// episodeCmd prints the providers of one episode
var episodeCmd = &cobra.Command{
	Use:   "episode <slug> <number>",
	Short: "List the providers of an episode",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %q", route.ErrInvalidEpisode, args[1])
		}
		return runEpisode(cmd.Context(), cmd.OutOrStdout(), api.NewClient(cfg, logger), args[0], n)
	},
}

func runSearch(ctx context.Context, w io.Writer, b backend.Backend, siteURL, text string) error {
	results, err := b.Search(ctx, text)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(w, mutedText.Render("No results found."))
		return nil
	}

	site := strings.TrimRight(siteURL, "/")
	for _, r := range results {
		fmt.Fprintf(w, "%s %s\n", titleText.Render(r.Title), linkText.Render(site+"/category/"+r.Slug))
	}
	return nil
}

func runDetails(ctx context.Context, w io.Writer, b backend.Backend, title string) error {
	d, err := lookupDetails(ctx, b, title)
	if err != nil {
		return err
	}

	field := func(name string, value any) {
		fmt.Fprintf(w, "%s %v\n", fieldLabel.Render(name+":"), value)
	}

	fmt.Fprintln(w, titleText.Bold(true).Render(d.Title))
	field("Id", d.ID)
	field("Cover Image", d.CoverImageURL)
	field("Released in", d.ReleaseYear)
	field("Episodes", d.EpisodeCount)
	field("Genres", strings.Join(d.Genres, ", "))
	field("Summary", d.Summary)
	return nil
}

// lookupDetails tries the slug derived from title first, then the closest search hit
func lookupDetails(ctx context.Context, b backend.Backend, title string) (*backend.Details, error) {
	slug := route.Slugify(title)
	d, err := b.Details(ctx, slug)
	if err == nil || !api.IsNotFound(err) {
		return d, err
	}

	results, serr := b.Search(ctx, title)
	if serr != nil || len(results) == 0 {
		return nil, err
	}

	best := results[0]
	titles := lo.Map(results, func(r backend.SearchResult, _ int) string { return r.Title })
	if matches := fuzzy.Find(title, titles); len(matches) > 0 {
		best = results[matches[0].Index]
	}
	if logger != nil {
		logger.Debug("slug lookup missed, using closest search hit", "slug", slug, "match", best.Slug)
	}

	return b.Details(ctx, best.Slug)
}

func runEpisode(ctx context.Context, w io.Writer, b backend.Backend, slug string, n int) error {
	ep, err := b.Episode(ctx, slug, n)
	if err != nil {
		return err
	}
	if len(ep.Providers) == 0 {
		fmt.Fprintln(w, mutedText.Render(fmt.Sprintf("No provider available for the %s episode.", humanize.Ordinal(n))))
		return nil
	}

	fmt.Fprintln(w, fieldLabel.Render(fmt.Sprintf("%s episode of %s", humanize.Ordinal(n), slug)))
	for i, p := range ep.Providers {
		line := fmt.Sprintf("%d. %s %s", i+1, p.Label, linkText.Render(p.SourceURL))
		if i == 0 {
			line += mutedText.Render(" (default)")
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
