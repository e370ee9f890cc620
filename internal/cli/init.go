package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/halyard-dev/halyard/internal/config"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
}

// runInit implements the init command.
func runInit(cmd *cobra.Command, args []string) error {
	// Check for existing config
	existing, _ := config.FindConfigFile(".")
	if existing != "" && !initForce {
		printWarning(fmt.Sprintf("Config file already exists: %s", existing))
		printInfo("Use --force to overwrite")
		return nil
	}

	target := "halyard.yaml"
	if existing != "" {
		target = existing
	}

	if err := config.WriteDefaultConfig(target); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printSuccess("Created " + target)
	fmt.Println()

	// A missing pubspec means this is probably not a Flutter project root.
	if _, err := os.Stat("pubspec.yaml"); err != nil {
		printWarning("No pubspec.yaml here; run halyard from the Flutter project root")
		fmt.Println()
	}

	printTitle("Next Steps")
	fmt.Println()
	fmt.Println("  1. Review " + target + " and export your store credentials:")
	fmt.Println()
	printSubtle("     export APP_STORE_KEY_ID=your-key-id")
	printSubtle("     export APP_STORE_ISSUER_ID=your-issuer-id")
	printSubtle("     export PLAY_SERVICE_ACCOUNT_JSON=path/to/service-account.json")
	fmt.Println()
	fmt.Println("  2. Run 'halyard status' to verify the project state")
	fmt.Println("  3. Run 'halyard check' to exercise the pre-release checks")
	fmt.Println()

	return nil
}
