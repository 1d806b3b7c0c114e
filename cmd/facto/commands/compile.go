package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/facto/internal/app"
	"go.trai.ch/facto/internal/engine/cachestore"
	"go.trai.ch/facto/internal/ui/style"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the factories declared in facto.yaml into the artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")

			res, err := c.app.Compile(cmd.Context(), app.CompileOptions{Force: force})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := newPalette(out)
			switch res.Outcome {
			case cachestore.OutcomeWritten:
				_, _ = fmt.Fprintf(out, "%s compiled %d factories to %s\n", p.ok.Render(style.Check), res.Count, res.Path)
			case cachestore.OutcomeTrusted:
				_, _ = fmt.Fprintf(out, "%s using existing %s\n", p.dim.Render(style.Tilde), res.Path)
			case cachestore.OutcomeSkipped:
				_, _ = fmt.Fprintf(out, "%s compiled %d factories, artifact not written\n", p.warn.Render(style.Warning), res.Count)
			default:
				_, _ = fmt.Fprintf(out, "%s caching disabled\n", p.dim.Render(style.Dot))
			}
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Regenerate the artifact even if it exists")
	return cmd
}
