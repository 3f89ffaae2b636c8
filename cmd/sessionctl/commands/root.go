package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sessionstore/internal/logging"
	"sessionstore/session"
	"sessionstore/store/file"
)

var (
	dbPath     string
	passphrase string
	logLevel   string
	logFormat  string

	backing  *file.Store
	sessions *session.Store
)

func Execute() error {
	root := &cobra.Command{
		Use:   "sessionctl",
		Short: "Inspect and maintain an end-to-end session store",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				dbPath = filepath.Join(dir, ".sessionstore", "store.json")
			}
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
				return err
			}

			logger, err := logging.New(logFormat, logLevel, os.Stderr)
			if err != nil {
				return err
			}

			if passphrase != "" {
				backing, err = file.NewEncrypted(dbPath, passphrase)
			} else {
				backing, err = file.New(dbPath)
			}
			if err != nil {
				return err
			}

			sessions, err = session.New(backing, session.WithLogger(logger))
			return err
		},
	}

	root.PersistentFlags().StringVar(&dbPath, "db", "", "store file (default ~/.sessionstore/store.json)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase for an encrypted store file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console|json)")

	root.AddCommand(keysCmd(), getCmd(), purgeCmd(), pendingCmd())
	return root.Execute()
}
