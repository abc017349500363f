package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Document-grounded question answering over your own files",
	Long: `Docqa indexes a directory of documents into a local vector store and
answers questions against it. Answers are grounded in retrieved document
context when possible, with a transparent fallback to the model's general
knowledge when the documents do not cover the question.`,
}

func Execute() error {
	// API keys usually live in a .env next to the project; missing
	// file is fine.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".docqa.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
