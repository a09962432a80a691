package cli

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage API credentials",
	Long: `Store and inspect the API key used for embeddings and chat.

The key is written to the config file with owner-only permissions. The
OPENAI_API_KEY environment variable, when set, takes precedence over
the stored key.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the API key",
	RunE:  runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the configured credentials",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	cmd.Print("API key: ")
	key := readPassword()
	cmd.Println()

	if key == "" {
		return errors.New("no API key entered")
	}

	cfg.APIKey = key
	if err := cfg.Save(); err != nil {
		return err
	}
	cmd.Println("API key saved.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if cfg.APIKey == "" {
		cmd.Println("No API key configured. Run 'courseqa auth login' or set OPENAI_API_KEY.")
		return nil
	}
	cmd.Printf("API key: %s\n", maskAPIKey(cfg.APIKey))
	if cfg.BaseURL != "" {
		cmd.Printf("Base URL: %s\n", cfg.BaseURL)
	}
	cmd.Printf("Embedding model: %s\n", cfg.EmbeddingModel)
	cmd.Printf("Chat model: %s\n", cfg.ChatModel)
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Read without echo when attached to a terminal
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
