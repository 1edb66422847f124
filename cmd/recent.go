package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zjrosen/folio/internal/infrastructure/sqlite"
	"github.com/zjrosen/folio/internal/resume"
	"github.com/zjrosen/folio/internal/source"
	"github.com/zjrosen/folio/internal/ui/shared"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently presented decks",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

var forgetCmd = &cobra.Command{
	Use:   "forget <deck>",
	Short: "Forget the saved slide of a deck",
	Args:  cobra.ExactArgs(1),
	RunE:  runForget,
}

func init() {
	recentCmd.Flags().IntP("limit", "n", 10, "number of decks to show (0 for all)")
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(forgetCmd)
}

func openStore() (*sqlite.DB, error) {
	if !cfg.Store.Enabled {
		return nil, errors.New("the resume store is disabled (store.enabled)")
	}
	db, err := sqlite.NewDB(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening resume store: %w", err)
	}
	return db, nil
}

func runRecent(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	positions, err := db.PositionRepository().List(limit)
	if err != nil {
		return fmt.Errorf("listing positions: %w", err)
	}
	writeRecent(cmd.OutOrStdout(), positions, time.Now())
	return nil
}

func writeRecent(w io.Writer, positions []resume.Position, now time.Time) {
	if len(positions) == 0 {
		_, _ = fmt.Fprintln(w, "No decks presented yet.")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Deck", "Slide", "Last shown")
	for _, p := range positions {
		slide := strconv.Itoa(p.Index)
		if p.Count > 0 {
			slide = fmt.Sprintf("%d/%d", p.Index+1, p.Count)
		}
		t.Row(p.Deck, slide, shared.FormatRelativeTimeFrom(p.UpdatedAt, now))
	}
	_, _ = fmt.Fprintln(w, t.Render())
}

func runForget(cmd *cobra.Command, args []string) error {
	ref, _ := splitDeckArg(args[0])
	// Positions are keyed by absolute path.
	if !source.IsURL(ref) {
		if abs, err := filepath.Abs(ref); err == nil {
			ref = abs
		}
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := resume.NewStore(db.PositionRepository(), ref).Forget(); err != nil {
		var nf *resume.NotFoundError
		if errors.As(err, &nf) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No saved position for %s\n", ref)
			return nil
		}
		return fmt.Errorf("forgetting %s: %w", ref, err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s\n", ref)
	return nil
}
