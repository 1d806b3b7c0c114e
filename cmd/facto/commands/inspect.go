package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [artifact]",
		Short: "List the entries of the compiled artifact",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}

			doc, err := c.app.Inspect(cmd.Context(), path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := newPalette(out)

			_, _ = fmt.Fprintln(out, p.dim.Render(fmt.Sprintf("version %s, checksum %d, %d factories",
				doc.Version, doc.Checksum, len(doc.Factories))))

			idWidth := maxWidth(doc.IDs())
			for _, frag := range doc.Factories {
				_, _ = fmt.Fprintf(out, "%s  %-6s  %s\n",
					p.id.Width(idWidth).Render(frag.ID),
					frag.Kind,
					firstLine(frag.Handle()),
				)
			}
			return nil
		},
	}
}
