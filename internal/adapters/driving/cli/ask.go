package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campuskit/courseqa/internal/core/domain"
)

var (
	askImagePath string
	askJSON      bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the knowledge base",
	Long: `Answers a question using the indexed course material and forum
discussions, citing the sources it used.

An optional screenshot can be attached; its text is extracted and
appended to the question.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askImagePath, "image", "i", "", "path to an image attachment")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	imageBase64 := ""
	if askImagePath != "" {
		data, err := os.ReadFile(askImagePath)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		imageBase64 = base64.StdEncoding.EncodeToString(data)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	query, cleanup, err := newQueryService(store)
	if err != nil {
		return err
	}
	defer cleanup()

	answer, err := query.Ask(cmd.Context(), question, imageBase64)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer domain.Answer) error {
	cmd.Println(answer.Text)
	if len(answer.Citations) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, c := range answer.Citations {
			if c.Text != "" {
				cmd.Printf("  %s - %s\n", c.URL, c.Text)
			} else {
				cmd.Printf("  %s\n", c.URL)
			}
		}
	}
	return nil
}
