package main

import (
	"github.com/spf13/cobra"
)

var (
	rootDir      string
	journalOn    bool
	verbose      bool
	outputFormat string
)

func buildRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crepbook",
		Short: "Manage a folder of notes without ever overwriting an existing name",
		Long: `crepbook is the filesystem layer of the crepbook note app.

Every create and rename picks the next free name instead of failing or
overwriting: "notes" becomes "notes1", "draft7" becomes "draft8", and
"doc.txt" becomes "doc1.txt".

Examples:
  # Where would a new file go?
	  crepbook next ~/vault/doc.txt

  # Create a note, renumbering on collision
	  crepbook create ~/vault "meeting.md"

  # Rename a folder onto a taken name
	  crepbook rename ~/vault/inbox ~/vault/archive

  # Serve the commands to the desktop shell
	  crepbook serve --addr 127.0.0.1:7410

Safety:
  With --root (or CREPBOOK_ROOT) every path must stay inside that directory,
  and the directory itself can never be renamed or deleted.

Environment:
  CREPBOOK_CONFIG_DIR  settings and journal directory
  CREPBOOK_ROOT        default for --root
  CREPBOOK_JOURNAL     default for --journal
  CREPBOOK_IPC_ADDR    default for serve --addr
  LOG_LEVEL, LOG_DEV   logging to stderr`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&rootDir, "root", "", "Confine all paths to this directory")
	cmd.PersistentFlags().BoolVar(&journalOn, "journal", false, "Record every mutation in the journal")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging to stderr)")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json or yaml")

	return cmd
}
