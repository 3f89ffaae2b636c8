package commands

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func purgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <category>",
		Short: "Bulk-delete one record category",
		Long: `Bulk-delete one record category.

Categories:
  account               legacy account pickle
  devices               device lists, tracking status and sync token
  sessions              all pairwise sessions
  inboundgroupsessions  all inbound group sessions
  rooms                 all per-room crypto state`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "account":
				return sessions.RemoveEndToEndAccount()
			case "devices":
				return sessions.RemoveEndToEndDeviceData()
			case "sessions":
				return sessions.RemoveAllEndToEndSessions()
			case "inboundgroupsessions":
				return sessions.RemoveAllEndToEndInboundGroupSessions()
			case "rooms":
				return sessions.RemoveAllEndToEndRooms()
			default:
				return errors.Errorf("unknown category %q", args[0])
			}
		},
	}
}
