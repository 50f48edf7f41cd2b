package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCertCmd(opts *rootOptions) *cobra.Command {
	certCmd := &cobra.Command{
		Use:     "cert",
		Aliases: []string{"certificate"},
		Short:   "Inspect and manage certificates",
	}

	var asJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all certificates, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			certs, err := env.certificates.List(cmd.Context(), nil)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), certs)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CERTIFICATE ID\tRECIPIENT\tCOURSE\tISSUER\tSTATUS\tISSUED")
			for _, c := range certs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					c.CertificateID, c.RecipientName, c.CourseName, c.Issuer, c.Status, c.IssueDate.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	verifyCmd := &cobra.Command{
		Use:   "verify <certificate-id>",
		Short: "Run the public verification check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			result, err := env.verification.Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	revokeCmd := &cobra.Command{
		Use:   "revoke <certificate-id>",
		Short: "Revoke a certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			result, err := env.certificates.Revoke(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", result.Message, result.Certificate.CertificateID)
			return nil
		},
	}

	certCmd.AddCommand(listCmd, verifyCmd, revokeCmd)
	return certCmd
}
