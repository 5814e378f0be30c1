package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/excel-interviewer/internal/interview"
	"github.com/spigell/excel-interviewer/internal/logger"
	"github.com/spigell/excel-interviewer/internal/questions"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the question bank the interview would use",
	Run: func(cmd *cobra.Command, _ []string) {
		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}
		defer logger.Sync()

		bank := questions.Load(viper.GetString("questions-file"), logger)
		logger.Debug("question bank loaded", zap.String("source", bank.Source()), zap.Int("questions", bank.Len()))

		printBank(cmd.OutOrStdout(), bank)
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)
}

func printBank(w io.Writer, bank *questions.Bank) {
	fmt.Fprintf(w, "Source: %s (%d questions)\n", bank.Source(), bank.Len())
	for _, phase := range interview.QuestionPhases() {
		fmt.Fprintf(w, "\n%s\n", phase.Title())
		for _, q := range bank.Phase(phase) {
			if q.Type != "" {
				fmt.Fprintf(w, "  [%s] %s (%s)\n", q.ID, q.Text, q.Type)
				continue
			}
			fmt.Fprintf(w, "  [%s] %s\n", q.ID, q.Text)
		}
	}
}
