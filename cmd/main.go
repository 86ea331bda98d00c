package main

import (
	"os"
)

func main() {
	rootCmd := buildRootCommand()
	rootCmd.AddCommand(
		buildExistsCommand(),
		buildReadCommand(),
		buildWriteCommand(),
		buildTouchCommand(),
		buildRmCommand(),
		buildLsCommand(),
		buildMkdirCommand(),
		buildEmptyCommand(),
		buildNextCommand(),
		buildRenameCommand(),
		buildCreateCommand(),
		buildSettingsCommand(),
		buildServeCommand(),
		buildWatchCommand(),
		buildHistoryCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
