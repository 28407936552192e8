package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Confirm a newly registered account",
	Long: `Confirm an account with the verification code sent by email, or
request a fresh code with --resend.`,
	RunE: runConfirm,
}

func init() {
	rootCmd.AddCommand(confirmCmd)

	confirmCmd.Flags().String("email", "", "account email")
	confirmCmd.Flags().String("code", "", "verification code")
	confirmCmd.Flags().Bool("resend", false, "resend the verification code")
	_ = confirmCmd.MarkFlagRequired("email")
}

func runConfirm(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	email, _ := cmd.Flags().GetString("email")

	if resend, _ := cmd.Flags().GetBool("resend"); resend {
		if err := app.flow.ResendVerificationEmail(cmd.Context(), email); err != nil {
			return describeAuthError(err)
		}
		printer.Success("verification code sent to %s", email)
		return nil
	}

	code, _ := cmd.Flags().GetString("code")
	if code == "" {
		return fmt.Errorf("either --code or --resend is required")
	}

	if err := app.flow.ConfirmSignUp(cmd.Context(), email, code); err != nil {
		return describeAuthError(err)
	}
	printer.Success("account confirmed, you can now sign in")
	return nil
}

// describeAuthError prints the user-facing message for classified
// failures and returns a terse error for the exit path.
func describeAuthError(err error) error {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		printer.Error("%s", authErr.Message())
		return errors.New("request failed")
	}
	return err
}
