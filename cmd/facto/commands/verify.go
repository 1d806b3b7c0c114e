package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/facto/internal/app"
	"go.trai.ch/facto/internal/ui/style"
)

func (c *CLI) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [artifact]",
		Short: "Check that every artifact entry can be loaded",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}

			report, err := c.app.Verify(cmd.Context(), path)

			out := cmd.OutOrStdout()
			p := newPalette(out)
			ids := make([]string, 0, len(report.Entries))
			for _, e := range report.Entries {
				ids = append(ids, e.ID)
			}
			idWidth := maxWidth(ids)

			for _, e := range report.Entries {
				id := p.id.Width(idWidth).Render(e.ID)
				switch e.Status {
				case app.VerifyOK:
					_, _ = fmt.Fprintf(out, "%s %s  %s\n", p.ok.Render(style.Check), id, e.Status)
				case app.VerifyHostBound:
					_, _ = fmt.Fprintf(out, "%s %s  %s\n", p.dim.Render(style.Tilde), id, e.Status)
				default:
					_, _ = fmt.Fprintf(out, "%s %s  %s: %v\n", p.fail.Render(style.Cross), id, e.Status, e.Err)
				}
			}
			return err
		},
	}
}
