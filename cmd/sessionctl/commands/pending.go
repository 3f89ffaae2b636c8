package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func pendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending <roomId>",
		Short: "Print a room's pending outgoing event queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := sessions.GetPendingEvents(args[0])
			if err != nil {
				return err
			}
			for _, ev := range events {
				fields, err := json.Marshal(ev.Fields)
				if err != nil {
					return err
				}
				fmt.Printf("%s\t%s\n", ev.TxnID, fields)
			}
			return nil
		},
	}
}
