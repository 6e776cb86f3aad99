// main is the entry point for the pfdstatus CLI.
package main

import (
	"github.com/pfdtrack/pfdstatus/cmd"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/internal/history"
)

func main() {
	cmd.SetHistoryManager(history.Manager)
	err := cmd.Execute()
	history.CloseHistory()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
