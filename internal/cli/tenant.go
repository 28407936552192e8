package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Inspect tenant information",
}

var tenantLookupCmd = &cobra.Command{
	Use:   "lookup <email>",
	Short: "Look up the tenant an email belongs to",
	Long: `Look up which tenant an email address is registered under, and whether
that tenant has SSO enabled. Useful before signing in to decide between
password and federated login.`,
	Args: cobra.ExactArgs(1),
	RunE: runTenantLookup,
}

func init() {
	rootCmd.AddCommand(tenantCmd)
	tenantCmd.AddCommand(tenantLookupCmd)

	tenantLookupCmd.Flags().Bool("json", false, "output as JSON")
}

func runTenantLookup(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	lookup, err := app.api.Tenants().LookupByEmail(cmd.Context(), args[0])
	if err != nil {
		return describeAPIError(err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lookup)
	}

	printer.Print("%s %s", printer.Bold("Tenant:"), lookup.TenantID)
	printer.Print("%s %s", printer.Bold("Type:"), lookup.TenantType)
	if lookup.SSOEnabled {
		printer.Print("%s yes (use 'gstsense login --provider <name>')", printer.Bold("SSO:"))
	} else {
		printer.Print("%s no", printer.Bold("SSO:"))
	}
	return nil
}
