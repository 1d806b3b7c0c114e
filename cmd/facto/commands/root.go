// Package commands implements the CLI commands for facto.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/facto/internal/app"
	"go.trai.ch/facto/internal/build"
	"go.trai.ch/facto/internal/engine/artifact"
)

// CLI represents the command line interface for facto.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Configure(opts app.GlobalOptions)
	Compile(ctx context.Context, opts app.CompileOptions) (app.CompileResult, error)
	Inspect(ctx context.Context, path string) (*artifact.Document, error)
	Verify(ctx context.Context, path string) (app.VerifyReport, error)
	Clean(ctx context.Context) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "facto",
		Short:         "Compile DI factories into a cached artifact",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configPath, _ := cmd.Flags().GetString("config")
			verbose, _ := cmd.Flags().GetBool("verbose")
			jsonOut, _ := cmd.Flags().GetBool("json")
			c.app.Configure(app.GlobalOptions{
				ConfigPath: configPath,
				Verbose:    verbose,
				JSON:       jsonOut,
			})
		},
	}

	// Persistent flags go first so the version flag does not take -v.
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to facto.yaml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Report every traced operation with its duration")
	rootCmd.PersistentFlags().Bool("json", false, "Log as JSON")

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newCompileCmd())
	rootCmd.AddCommand(c.newInspectCmd())
	rootCmd.AddCommand(c.newVerifyCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
