package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

var (
	searchLimit       int
	searchJSON        bool
	searchCollections []string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed records",
	Long: `Embeds the query once and searches the given vector collections,
returning the closest records across all of them. Without --collection
every collection is searched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List searchable vector collections",
	Args:  cobra.NoArgs,
	RunE:  runCollections,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringSliceVar(&searchCollections, "collection", nil, "collections to search (repeatable)")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(collectionsCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retriever == nil {
		return errors.New("search service not configured")
	}

	query := strings.Join(args, " ")
	hits, err := retriever.Search(commandContext(cmd), searchCollections, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, hits)
	}
	return outputSearchTable(cmd, hits)
}

type searchHitJSON struct {
	Collection string  `json:"collection"`
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Document   string  `json:"document"`
	Distance   float64 `json:"distance"`
}

func outputSearchJSON(cmd *cobra.Command, hits []domain.SearchHit) error {
	out := make([]searchHitJSON, len(hits))
	for i, h := range hits {
		out[i] = searchHitJSON{
			Collection: h.Collection,
			ID:         h.ID,
			Title:      domain.CandidateFromHit(h).Title,
			Document:   h.Document,
			Distance:   h.Distance,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, hits []domain.SearchHit) error {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, h := range hits {
		c := domain.CandidateFromHit(h)
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, c.Title, h.Distance)
		cmd.Printf("      Collection: %s\n", h.Collection)
		cmd.Println()
	}
	return nil
}

func runCollections(cmd *cobra.Command, _ []string) error {
	if retriever == nil {
		return errors.New("search service not configured")
	}

	infos, err := retriever.Collections(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	if len(infos) == 0 {
		cmd.Println("No collections yet. Run 'lexbrief sync' first.")
		return nil
	}
	cmd.Println("Collections:")
	for _, info := range infos {
		cmd.Printf("  %-20s %d entries\n", info.Name, info.Count)
	}
	return nil
}
