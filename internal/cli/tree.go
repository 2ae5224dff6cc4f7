package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sisi/pkg/errors"
	"github.com/matzehuels/sisi/pkg/line"
)

// treeCommand creates the tree command for visualizing the placement search.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		size   int
		output string
		dot    bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "tree --size N [blocks...]",
		Short: "Render the placement search tree (debug tool)",
		Long: `Render the tree of block offsets explored while enumerating placements.

Each level chooses the offset of one block. Leaves show a complete
placement; dashed "none" leaves mark branches where the remaining blocks
no longer fit. Large trees are cut off after --limit nodes.`,
		Example: `  # Search tree for two blocks in ten cells
  sisi tree --size 10 2 3 -o tree.svg

  # Raw Graphviz DOT on stdout
  sisi tree --size 6 1,1 --dot`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := lineRequest(size, args, "")
			if err != nil {
				return err
			}
			if limit <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "limit must be positive, got %d", limit)
			}
			if output != "" {
				if err := errors.ValidatePath(output); err != nil {
					return err
				}
			}

			var data []byte
			if dot {
				s, err := line.ToDOT(req.Size, req.Blocks, limit)
				if err != nil {
					return err
				}
				data = []byte(s)
			} else {
				spinner := newLineSpinner(cmd.Context(), os.Stderr, "Rendering search tree...", 0)
				spinner.Start()
				data, err = line.RenderSVG(cmd.Context(), req.Size, req.Blocks, limit)
				spinner.Stop()
				if err != nil {
					return fmt.Errorf("render: %w", err)
				}
			}

			out, err := openOutput(output)
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if _, err := out.Write(data); err != nil {
				out.Close()
				return fmt.Errorf("write output: %w", err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			if output == "" {
				return nil
			}
			count, err := line.Count(req.Size, req.Blocks)
			if err != nil {
				return err
			}
			printSuccess("Search tree generated")
			printKeyValue("Clue", treeClue(req.Size, req.Blocks))
			printKeyValue("Placements", strconv.Itoa(count))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", 0, "number of cells in the line")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&dot, "dot", false, "emit Graphviz DOT instead of SVG")
	cmd.Flags().IntVar(&limit, "limit", line.DefaultTreeLimit, "maximum number of tree nodes")
	_ = cmd.MarkFlagRequired("size")

	return cmd
}

// treeClue formats a clue like "[2 3] in 10 cells".
func treeClue(size int, blocks []int) string {
	return fmt.Sprintf("[%s] in %d cells", line.FormatBlocks(blocks), size)
}
