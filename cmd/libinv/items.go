package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/library-inventory/internal/inventory"
	"github.com/vyrodovalexey/library-inventory/internal/model"
)

var (
	// add book flags
	addBookID     int
	addBookTitle  string
	addBookAuthor string
	addBookPages  int

	// add journal flags
	addJournalID        int
	addJournalTitle     string
	addJournalPublisher string
	addJournalVolume    int
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an item to the library",
}

var addBookCmd = &cobra.Command{
	Use:   "book",
	Short: "Add a book",
	Long: `Adds a book to the library. The id must not be taken by any
existing item.

Example:
  libinv add book --id 1 --title "Dune" --author "Frank Herbert" --pages 412`,
	Args: cobra.NoArgs,
	RunE: runAddBook,
}

var addJournalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Add a journal",
	Long: `Adds a journal to the library. The id must not be taken by any
existing item.

Example:
  libinv add journal --id 2 --title "Nature" --publisher "Springer" --volume 614`,
	Args: cobra.NoArgs,
	RunE: runAddJournal,
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an item by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var borrowCmd = &cobra.Command{
	Use:   "borrow <id>",
	Short: "Toggle the borrowed status of an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runBorrow,
}

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Find items by a case-insensitive title substring",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every item in the library",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection totals",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	addBookCmd.Flags().IntVar(&addBookID, "id", 0, "Unique item id (required)")
	addBookCmd.Flags().StringVar(&addBookTitle, "title", "", "Book title (required)")
	addBookCmd.Flags().StringVar(&addBookAuthor, "author", "", "Book author (required)")
	addBookCmd.Flags().IntVar(&addBookPages, "pages", 0, "Page count")
	addBookCmd.MarkFlagRequired("id")

	addJournalCmd.Flags().IntVar(&addJournalID, "id", 0, "Unique item id (required)")
	addJournalCmd.Flags().StringVar(&addJournalTitle, "title", "", "Journal title (required)")
	addJournalCmd.Flags().StringVar(&addJournalPublisher, "publisher", "", "Journal publisher (required)")
	addJournalCmd.Flags().IntVar(&addJournalVolume, "volume", 0, "Volume number")
	addJournalCmd.MarkFlagRequired("id")

	addCmd.AddCommand(addBookCmd)
	addCmd.AddCommand(addJournalCmd)
}

func runAddBook(cmd *cobra.Command, _ []string) error {
	req := model.AddBookRequest{
		ID:     addBookID,
		Title:  addBookTitle,
		Author: addBookAuthor,
		Pages:  addBookPages,
	}
	return addItem(cmd, &req)
}

func runAddJournal(cmd *cobra.Command, _ []string) error {
	req := model.AddJournalRequest{
		ID:        addJournalID,
		Title:     addJournalTitle,
		Publisher: addJournalPublisher,
		Volume:    addJournalVolume,
	}
	return addItem(cmd, &req)
}

// addRequest is the shape shared by the add payloads.
type addRequest interface {
	Validate() error
	Item() model.Item
}

func addItem(cmd *cobra.Command, req addRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	item := req.Item()

	if err := openStore(ctx).Add(ctx, item); err != nil {
		return outcomeError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(inventory.MsgItemAdded))
	fmt.Fprintln(cmd.OutOrStdout(), renderFields(item))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	id, err := parseItemID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	item, err := openStore(ctx).Remove(ctx, id)
	if err != nil {
		return outcomeError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(inventory.MsgItemRemoved))
	fmt.Fprintln(cmd.OutOrStdout(), renderFields(item))
	return nil
}

func runBorrow(cmd *cobra.Command, args []string) error {
	id, err := parseItemID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st := openStore(ctx)

	borrowed, err := st.ToggleBorrow(ctx, id)
	if err != nil {
		return outcomeError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(inventory.BorrowMessage(borrowed)))
	if item, ok := st.Get(id); ok {
		fmt.Fprintln(cmd.OutOrStdout(), renderFields(item))
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	items, err := openStore(ctx).Search(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderItems(items))
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	items, err := openStore(ctx).ListAll(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderItems(items))
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	stats := openStore(cmd.Context()).Stats()
	fmt.Fprintln(cmd.OutOrStdout(), renderStats(stats))
	return nil
}

// parseItemID parses a positional id argument.
func parseItemID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

// outcomeError converts a store failure into the operator-facing
// outcome line, logging the underlying cause.
func outcomeError(err error) error {
	logger.Error("operation failed", zap.Error(err))

	switch {
	case errors.Is(err, inventory.ErrDuplicateID):
		return errors.New(inventory.MsgDuplicateID)
	case errors.Is(err, inventory.ErrNotFound):
		return errors.New(inventory.MsgNotFound)
	default:
		return errors.New(inventory.MsgSaveFailed)
	}
}

// renderFields renders one item as labeled lines, status colored.
func renderFields(item model.Item) string {
	var b strings.Builder
	for _, f := range item.DisplayFields() {
		value := f.Value
		if f.Label == "Status" {
			value = statusStyle(value).Render(value)
		}
		fmt.Fprintf(&b, "  %s: %s\n", f.Label, value)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderItems renders items as an aligned table. The status column is
// colored, and kept last so styling cannot disturb the alignment.
func renderItems(items []model.Item) string {
	if len(items) == 0 {
		return mutedStyle.Render("No items found")
	}

	header := []string{"ID", "Type", "Title", "Details"}
	rows := make([][]string, 0, len(items))
	statuses := make([]string, 0, len(items))

	for _, item := range items {
		fields := item.DisplayFields()
		last := len(fields) - 1

		// Variant-specific fields sit between the title and the status.
		details := make([]string, 0, last-3)
		for _, f := range fields[3:last] {
			details = append(details, f.Label+": "+f.Value)
		}

		rows = append(rows, []string{
			fields[0].Value,
			fields[1].Value,
			fields[2].Value,
			strings.Join(details, ", "),
		})
		statuses = append(statuses, fields[last].Value)
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	var headerLine strings.Builder
	for i, h := range header {
		fmt.Fprintf(&headerLine, "%-*s  ", widths[i], h)
	}
	headerLine.WriteString("Status")
	b.WriteString(headerStyle.Render(headerLine.String()))
	b.WriteByte('\n')

	for r, row := range rows {
		for i, cell := range row {
			fmt.Fprintf(&b, "%-*s  ", widths[i], cell)
		}
		b.WriteString(statusStyle(statuses[r]).Render(statuses[r]))
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderStats renders the collection totals.
func renderStats(stats model.Stats) string {
	lines := []string{
		fmt.Sprintf("  Total:     %d", stats.Total),
		fmt.Sprintf("  Available: %d", stats.Available),
		fmt.Sprintf("  Borrowed:  %d", stats.Borrowed),
	}
	return strings.Join(lines, "\n")
}
