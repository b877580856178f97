package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var opinionNoPreview bool

var opinionCmd = &cobra.Command{
	Use:   "opinion <query>",
	Short: "Write a legal opinion for an HR question",
	Long: `Summarises the question, cites the relevant statutes and cases, searches
every indexed collection for related consultations and writes a review.
The opinion is saved as Markdown in the newsletter output directory.

Requires a chat model (see 'lexbrief settings set llm.provider').`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOpinion,
}

func init() {
	opinionCmd.Flags().BoolVar(&opinionNoPreview, "no-preview", false, "do not preview the written opinion")
	rootCmd.AddCommand(opinionCmd)
}

func runOpinion(cmd *cobra.Command, args []string) error {
	if opinionWriter == nil {
		return errors.New("legal opinions need a chat model: set llm.provider")
	}

	query := strings.Join(args, " ")
	cmd.Printf("Writing legal opinion for %q...\n", query)
	op, doc, err := opinionWriter.Write(commandContext(cmd), query)
	if err != nil {
		return fmt.Errorf("opinion failed: %w", err)
	}

	cmd.Printf("Drew on %d related consultation(s).\n", len(op.References))
	printDocument(cmd, doc, opinionNoPreview)
	return nil
}
