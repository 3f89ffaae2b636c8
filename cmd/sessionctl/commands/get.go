package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the raw value stored under one key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, ok, err := backing.Get(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return errors.Errorf("key %q not found", args[0])
			}
			fmt.Println(value)
			return nil
		},
	}
}
