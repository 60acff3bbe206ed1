package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/fastask/fastask/internal/config"
	"github.com/fastask/fastask/internal/history"
	"github.com/fastask/fastask/internal/logging"
	"github.com/fastask/fastask/ui/styles"
)

var (
	historyLimit  int
	historyOffset int
	historyFilter string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage the query history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent queries",
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		defer store.Close()

		items, err := store.List(context.Background(), historyLimit, historyOffset, historyFilter)
		if err != nil {
			log.Fatalf("Failed to list history: %v", err)
		}
		if len(items) == 0 {
			fmt.Println("No history entries.")
			return
		}

		timestamp := styles.TimestampStyle()
		for _, item := range items {
			fmt.Printf("%4d  %s  %s\n", item.ID, timestamp.Render(item.Timestamp.Local().Format("2006-01-02 15:04")), item.Query)
		}
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one history entry in full",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		store := openStore()
		defer store.Close()

		item, err := store.Get(context.Background(), id)
		if err != nil {
			log.Fatalf("Failed to load entry: %v", err)
		}
		if item == nil {
			log.Fatalf("No history entry with id %d", id)
		}

		title := styles.TitleStyle()
		fmt.Println(title.Render("Query"))
		fmt.Println(item.Query)
		fmt.Println()
		fmt.Println(title.Render("Response"))
		fmt.Println(item.Response)
		fmt.Println()
		fmt.Printf("Model: %s\n", item.ModelName)
		fmt.Printf("Time:  %s\n", item.Timestamp.Local().Format("2006-01-02 15:04:05"))
		if item.HasScreenshot {
			fmt.Printf("Screenshot: %s\n", item.ScreenshotPath)
		}
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one history entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		store := openStore()
		defer store.Close()

		deleted, err := store.Delete(context.Background(), id)
		if err != nil {
			log.Fatalf("Failed to delete entry: %v", err)
		}
		if !deleted {
			fmt.Printf("No history entry with id %d\n", id)
			return
		}
		fmt.Printf("Deleted entry %d\n", id)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entire history",
	Run: func(cmd *cobra.Command, args []string) {
		prompt := promptui.Prompt{
			Label:     "Delete all history entries",
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			fmt.Println("Aborted.")
			return
		}

		store := openStore()
		defer store.Close()

		removed, err := store.Clear(context.Background())
		if err != nil {
			log.Fatalf("Failed to clear history: %v", err)
		}
		fmt.Printf("Removed %d entries\n", removed)
	},
}

func openStore() *history.Store {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	styles.SetTheme(cfg.Theme)

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logging: %v", err)
	}

	store, err := history.Open(cfg.DBPath, logger)
	if err != nil {
		log.Fatalf("Failed to open history store: %v", err)
	}
	return store
}

func parseID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		log.Fatalf("Invalid id %q", arg)
	}
	return id
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to list")
	historyListCmd.Flags().IntVar(&historyOffset, "offset", 0, "entries to skip")
	historyListCmd.Flags().StringVar(&historyFilter, "filter", "", "substring to match in query or response")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}
