package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/certverify/internal/application/dto"
	"github.com/turtacn/certverify/internal/domain/models"
)

func newUserCmd(opts *rootOptions) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var (
		username     string
		password     string
		organization string
		role         string
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user with an explicit role",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			user, err := env.auth.CreateUser(cmd.Context(), &dto.RegisterRequest{
				Username:     username,
				Password:     password,
				Organization: organization,
			}, models.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s with role %s\n", user.Username, user.Role)
			return nil
		},
	}
	createCmd.Flags().StringVar(&username, "username", "", "login name")
	createCmd.Flags().StringVar(&password, "password", "", "initial password")
	createCmd.Flags().StringVar(&organization, "organization", "", "organization shown as the default issuer")
	createCmd.Flags().StringVar(&role, "role", string(models.RoleIssuer), "role: admin or issuer")
	_ = createCmd.MarkFlagRequired("username")
	_ = createCmd.MarkFlagRequired("password")

	userCmd.AddCommand(createCmd)
	return userCmd
}
