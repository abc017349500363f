package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"docqa/internal/rag"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Answer a question against the document index",
	Long: `Answers a natural language question using the indexed documents. When the
documents do not cover the question, the answer falls back to the model's
general knowledge and is labelled accordingly. With --interactive the
command runs a prompt loop instead of answering a single question.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolP("interactive", "i", false, "run an interactive question loop")
	queryCmd.Flags().Bool("json", false, "output the answer as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	interactive, _ := cmd.Flags().GetBool("interactive")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if !interactive && len(args) == 0 {
		return fmt.Errorf("provide a question or use --interactive")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := loadStore(ctx, cfg)
	if err != nil {
		return err
	}
	if store.Count() == 0 {
		fmt.Println("Document index is empty. Run `docqa ingest` first.")
		return nil
	}

	engine, _, err := buildEngine(cfg, store)
	if err != nil {
		return err
	}

	if interactive {
		return runQueryLoop(ctx, engine, jsonOutput)
	}
	return answerOne(ctx, engine, args[0], jsonOutput)
}

func answerOne(ctx context.Context, engine *rag.Engine, question string, jsonOutput bool) error {
	outcome, err := engine.Answer(ctx, question)
	if err != nil {
		return fmt.Errorf("answering: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}

	fmt.Println(outcome.Answer)
	if outcome.Mode == rag.ModeFallback {
		fmt.Println("\n(answered from general knowledge, not your documents)")
	}
	return nil
}

// runQueryLoop prompts for questions until the user types exit or quit.
func runQueryLoop(ctx context.Context, engine *rag.Engine, jsonOutput bool) error {
	fmt.Println("Ask questions about your documents. Type `exit` to leave.")

	prompt := promptui.Prompt{Label: "Question"}
	for {
		question, err := prompt.Run()
		if err != nil {
			// Ctrl-C and Ctrl-D end the loop.
			if err == promptui.ErrInterrupt || err == promptui.ErrEOF {
				return nil
			}
			return fmt.Errorf("reading question: %w", err)
		}

		question = strings.TrimSpace(question)
		switch strings.ToLower(question) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if err := answerOne(ctx, engine, question, jsonOutput); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		fmt.Println()
	}
}
