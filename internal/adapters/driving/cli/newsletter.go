package cli

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/lexbrief/internal/adapters/driven/render"
	"github.com/custodia-labs/lexbrief/internal/adapters/driving/chat"
	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

var newsletterNoPreview bool

var newsletterCmd = &cobra.Command{
	Use:   "newsletter",
	Short: "Compose a newsletter interactively",
	Long: `Walks through the newsletter workflow in the terminal: pick a news
article, a consultation case and policy announcements, then type '생성'
(or 'generate') to render the newsletter.

While a list is shown, answer with the option number. Policy
announcements accept several numbers (e.g. "1,3") or "none".

Commands:
  /reset  start over
  /quit   leave without generating`,
	Args: cobra.NoArgs,
	RunE: runNewsletter,
}

func init() {
	newsletterCmd.Flags().BoolVar(&newsletterNoPreview, "no-preview", false, "do not preview the generated newsletter")
	rootCmd.AddCommand(newsletterCmd)
}

func runNewsletter(cmd *cobra.Command, _ []string) error {
	if sessions == nil {
		return errors.New("newsletter workflow not configured")
	}

	ctx := commandContext(cmd)
	conv, res, err := chat.Start(ctx, sessions)
	if err != nil {
		return err
	}
	defer conv.End(ctx) //nolint:errcheck // session is discarded on exit

	printStep(cmd, res)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "/quit", "/exit":
			return nil
		case "/reset":
			res, err = conv.Reset(ctx)
		default:
			res, err = conv.Send(ctx, line)
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			cmd.PrintErrf("Error: %v\n", err)
			continue
		}
		printStep(cmd, res)
	}
}

// printStep writes a workflow result to the command output.
func printStep(cmd *cobra.Command, res domain.StepResult) {
	for _, line := range strings.Split(res.Message, "\n") {
		if line != "" {
			cmd.Println(stripEmphasis(line))
		}
	}

	if len(res.Options) > 0 {
		cmd.Println()
		for i, c := range res.Options {
			cmd.Printf("  %d. %s\n", i+1, c.Title)
			meta := make([]string, 0, 2)
			if c.Source != "" {
				meta = append(meta, c.Source)
			}
			if c.Date != "" {
				meta = append(meta, c.Date)
			}
			if len(meta) > 0 {
				cmd.Printf("     %s\n", strings.Join(meta, " · "))
			}
		}
		cmd.Println()
	}

	if res.Document != nil {
		printDocument(cmd, res.Document, newsletterNoPreview)
	}
}

func printDocument(cmd *cobra.Command, doc *domain.RenderedDocument, noPreview bool) {
	if doc.Path != "" {
		cmd.Printf("Saved to %s\n", doc.Path)
	}
	if noPreview || domain.OutputFormat(doc.Format) != domain.OutputFormatMarkdown {
		return
	}
	width := 80
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}
	out, err := render.Preview(string(doc.Content), width)
	if err != nil {
		cmd.PrintErrf("Preview unavailable: %v\n", err)
		return
	}
	cmd.Print(out)
}

// stripEmphasis removes Markdown bold markers for plain terminal output.
func stripEmphasis(s string) string {
	return strings.ReplaceAll(s, "**", "")
}
