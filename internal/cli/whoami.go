package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current identity",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)

	whoamiCmd.Flags().Bool("json", false, "output as JSON")
}

func runWhoami(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	if !app.sessions.CheckSession(cmd.Context()) {
		printer.Warning("not signed in")
		return fmt.Errorf("run 'gstsense login' first")
	}
	identity, ok := app.sessions.Identity()
	if !ok {
		return fmt.Errorf("run 'gstsense login' first")
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(identity)
	}

	printer.Print("%s  %s", printer.Bold("Subject:"), identity.SubjectID)
	printer.Print("%s    %s", printer.Bold("Email:"), identity.Email)
	if identity.TenantType != "" {
		printer.Print("%s   %s", printer.Bold("Tenant:"), identity.TenantType)
	}
	if identity.TenantID != "" {
		printer.Print("%s %s", printer.Bold("TenantID:"), identity.TenantID)
	}
	if identity.Role != "" {
		printer.Print("%s     %s", printer.Bold("Role:"), identity.Role)
	}
	return nil
}
