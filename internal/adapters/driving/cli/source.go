package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

var (
	sourceAddID         string
	sourceAddName       string
	sourceAddCollection string
	sourceAddConfig     []string
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage record sources",
	Long:  `Add, list and remove the archives lexbrief crawls.`,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	Args:  cobra.NoArgs,
	RunE:  runSourceList,
}

var sourceTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List available connector types",
	Args:  cobra.NoArgs,
	RunE:  runSourceTypes,
}

var sourceAddCmd = &cobra.Command{
	Use:   "add [connector-type]",
	Short: "Add a source",
	Long: `Adds a source of the given connector type. The source ID defaults to the
type's collection name, so a second source of the same type needs --id.

Examples:
  lexbrief source add moel_iqrs
  lexbrief source add moel_fastcounsel --id fc-mirror --config base_url=http://localhost:8080`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceAdd,
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove [source-id]",
	Short: "Remove a source and its stored records",
	Long: `Removes a source and its stored records. Entries already indexed into
the source's collection stay searchable.`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceRemove,
}

func init() {
	sourceAddCmd.Flags().StringVar(&sourceAddID, "id", "", "source ID (default: the type's collection name)")
	sourceAddCmd.Flags().StringVar(&sourceAddName, "name", "", "display name")
	sourceAddCmd.Flags().StringVar(&sourceAddCollection, "collection", "", "vector collection to index into")
	sourceAddCmd.Flags().StringArrayVarP(&sourceAddConfig, "config", "c", nil, "connector config as key=value (repeatable)")

	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceTypesCmd)
	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	sources, err := sourceService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}
	if len(sources) == 0 {
		cmd.Println("No sources configured. Add one with 'lexbrief source add'.")
		return nil
	}

	cmd.Println("Sources:")
	for i := range sources {
		src := &sources[i]
		cmd.Printf("  %s (%s)\n", src.ID, src.Type)
		cmd.Printf("      Name: %s\n", src.Name)
		cmd.Printf("      Collection: %s\n", src.CollectionName())
		if recordService != nil {
			if n, err := recordService.Count(commandContext(cmd), src.ID); err == nil {
				cmd.Printf("      Records: %d\n", n)
			}
		}
		keys := make([]string, 0, len(src.Config))
		for k := range src.Config {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Printf("      %s: %s\n", k, src.Config[k])
		}
	}
	return nil
}

func runSourceTypes(cmd *cobra.Command, _ []string) error {
	if connectorRegistry == nil {
		return errors.New("connector registry not configured")
	}

	cmd.Println("Connector types:")
	for _, ct := range connectorRegistry.List() {
		cmd.Printf("  %s - %s\n", ct.ID, ct.Name)
		cmd.Printf("      %s\n", ct.Description)
		cmd.Printf("      Default collection: %s\n", ct.DefaultCollection)
	}
	return nil
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	if sourceService == nil || connectorRegistry == nil {
		return errors.New("source service not configured")
	}

	ct, err := connectorRegistry.Get(args[0])
	if err != nil {
		return fmt.Errorf("unknown connector type %q: %w", args[0], err)
	}

	config, err := parseKeyValues(sourceAddConfig)
	if err != nil {
		return err
	}

	id := sourceAddID
	if id == "" {
		id = ct.DefaultCollection
	}
	source := domain.Source{
		ID:         id,
		Type:       ct.ID,
		Name:       sourceAddName,
		Collection: sourceAddCollection,
		Config:     config,
	}
	if err := sourceService.Add(commandContext(cmd), source); err != nil {
		return fmt.Errorf("failed to add source: %w", err)
	}

	cmd.Printf("Source %s added. Run 'lexbrief sync %s' to fetch its records.\n", id, id)
	return nil
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}
	if err := sourceService.Remove(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to remove source: %w", err)
	}
	cmd.Printf("Source %s removed.\n", args[0])
	return nil
}

func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid config %q, expected key=value", pair)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}
