package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var recordsLimit int

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect stored records",
}

var recordsListCmd = &cobra.Command{
	Use:   "list [source-id]",
	Short: "List a source's records, most recently updated first",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsList,
}

var recordsGetCmd = &cobra.Command{
	Use:   "get [source-id] [key]",
	Short: "Show a single record",
	Args:  cobra.ExactArgs(2),
	RunE:  runRecordsGet,
}

func init() {
	recordsListCmd.Flags().IntVarP(&recordsLimit, "limit", "n", 20, "maximum number of records (0 = all)")
	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsGetCmd)
	rootCmd.AddCommand(recordsCmd)
}

func runRecordsList(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	ctx := commandContext(cmd)
	records, err := recordService.List(ctx, args[0], recordsLimit)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	if len(records) == 0 {
		cmd.Printf("No records stored for %s.\n", args[0])
		return nil
	}

	total, err := recordService.Count(ctx, args[0])
	if err != nil {
		total = len(records)
	}
	cmd.Printf("Records for %s (showing %d of %d):\n", args[0], len(records), total)
	for i := range records {
		r := &records[i]
		flag := ""
		if !r.Indexed {
			flag = " [not indexed]"
		}
		if r.Detail().IsFailed() {
			flag += " [detail failed]"
		}
		cmd.Printf("  %-10s %-10s %-8s %s%s\n", r.Key, r.Date, r.State, r.Title, flag)
	}
	return nil
}

func runRecordsGet(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	r, err := recordService.Get(commandContext(cmd), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}

	cmd.Printf("Title: %s\n", r.Title)
	cmd.Printf("Key: %s\n", r.Key)
	cmd.Printf("Date: %s\n", r.Date)
	cmd.Printf("State: %s\n", r.State)
	if r.RefNo != "" {
		cmd.Printf("Ref no: %s\n", r.RefNo)
	}
	cmd.Printf("Link: %s\n", r.Link)
	cmd.Printf("Indexed: %t\n", r.Indexed)
	cmd.Println()
	cmd.Println("Q:")
	cmd.Println(r.Question)
	cmd.Println()
	cmd.Println("A:")
	cmd.Println(r.Answer)
	return nil
}
