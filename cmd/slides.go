package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zjrosen/folio/internal/deck"
	"github.com/zjrosen/folio/internal/source"
)

var slidesCmd = &cobra.Command{
	Use:   "slides <deck>",
	Short: "List a deck's slides",
	Long:  `Load a deck without presenting it and print each slide's title and autoplay duration.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSlides,
}

func init() {
	rootCmd.AddCommand(slidesCmd)
}

func runSlides(cmd *cobra.Command, args []string) error {
	ref, _ := splitDeckArg(args[0])
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	src, err := source.Open(ctx, ref)
	if err != nil {
		return fmt.Errorf("opening deck: %w", err)
	}
	slides, err := source.NewLoader().LoadAll(ctx, src.Entries)
	if len(slides) > 0 {
		writeSlides(cmd.OutOrStdout(), src.Title, slides, deckInterval(cmd, src))
	}
	if err != nil {
		return fmt.Errorf("loading deck: %w", err)
	}
	return nil
}

// writeSlides prints one row per slide. Slides without their own duration
// show the configured interval in parentheses.
func writeSlides(w io.Writer, title string, slides []deck.Slide, interval time.Duration) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Title", "Duration")
	for i, s := range slides {
		name := s.Title
		if name == "" {
			name = "(untitled)"
		}
		dur := fmt.Sprintf("(%s)", interval)
		if s.Duration > 0 {
			dur = s.Duration.String()
		}
		t.Row(strconv.Itoa(i), name, dur)
	}
	_, _ = fmt.Fprintf(w, "%s: %d slides\n%s\n", title, len(slides), t.Render())
}
