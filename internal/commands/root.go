// Package commands implements the riepilogo-cli command tree.
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"riepilogo/internal/buildinfo"
	"riepilogo/internal/core"
	"riepilogo/internal/services"
)

// Env holds what the subcommands operate on. Now defaults to time.Now.
type Env struct {
	Expenses  *services.ExpenseService
	Summaries *services.SummaryService
	Now       func() time.Time
}

func (e *Env) today() core.Date {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	n := now()
	return core.NewDate(n.Year(), int(n.Month()), n.Day())
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(env *Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "riepilogo-cli",
		Short:   "Record expenses and compare monthly spending",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newAddCommand(env))
	rootCmd.AddCommand(newListCommand(env))
	rootCmd.AddCommand(newSummaryCommand(env))

	return rootCmd
}
