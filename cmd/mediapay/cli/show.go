package cli

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/bitfsorg/mediapay-go/server"
)

func (a *app) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <account>",
		Short: "Print an account and its decoded record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			rt, closeFn, err := a.openRuntime(nil)
			if err != nil {
				return err
			}
			defer closeFn()

			acct, err := rt.Account(id)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(server.NewAccountView(acct, rt.TokenProgram()), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
