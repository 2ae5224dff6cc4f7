package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sisi/pkg/errors"
	sisiio "github.com/matzehuels/sisi/pkg/io"
	"github.com/matzehuels/sisi/pkg/line"
	"github.com/matzehuels/sisi/pkg/render"
	"github.com/matzehuels/sisi/pkg/solve"
)

// Output formats for solve commands.
const (
	formatText = "text"
	formatJSON = "json"
)

// lineCommand creates the line command that solves a single line.
func (c *CLI) lineCommand() *cobra.Command {
	var (
		size    int
		known   string
		format  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "line --size N [blocks...]",
		Short: "Determine the certain cells of one line",
		Long: `Determine which cells of a line are certainly filled or certainly empty.

Blocks may be given as separate arguments or as one comma-separated list.
With --known, cells already decided elsewhere are taken into account:
X # 1 mark filled cells, O . - 0 mark empty cells, ? _ mark unknown ones.`,
		Example: `  # Two blocks in a line of ten cells
  sisi line --size 10 2 7

  # Same clue, comma separated, as JSON
  sisi line --size 10 2,7 --format json

  # Refine with a known filled cell
  sisi line --size 10 3 --known "????X?????"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			req, err := lineRequest(size, args, known)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Solve(cmd.Context(), req)
			if err != nil {
				return err
			}

			if format == formatJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(sisiio.NewRecord(*res, c.Config.Glyphs))
			}
			printLineResult(req, res, c.Config.Glyphs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", 0, "number of cells in the line")
	cmd.Flags().StringVarP(&known, "known", "k", "", "already known cells, e.g. \"??X.??\"")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("size")

	return cmd
}

// lineRequest builds a solve request from command-line arguments.
func lineRequest(size int, args []string, known string) (solve.Request, error) {
	blocks, err := line.ParseBlocks(strings.Join(args, " "))
	if err != nil {
		return solve.Request{}, err
	}
	if err := errors.ValidateSize(size); err != nil {
		return solve.Request{}, err
	}
	return solve.Request{Size: size, Blocks: blocks, Known: known}, nil
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q (want text or json)", format)
}

func printLineResult(req solve.Request, res *solve.Result, g render.Glyphs) {
	clue := line.FormatBlocks(req.Blocks)
	if clue == "" {
		clue = "(empty)"
	}
	if res.Contradiction {
		printWarning("No placement of %s fits %d cells", clue, req.Size)
	} else {
		printSuccess("Solved line of %d cells with clue %s", req.Size, clue)
	}
	if req.Size > 0 {
		fmt.Println("  " + styledLine(res.States, g))
	}
	printStats(res)
	if len(req.Blocks) > 0 && !res.Contradiction {
		printNextStep("Show search tree", fmt.Sprintf("sisi tree --size %d %s -o tree.svg", req.Size, strings.ReplaceAll(clue, " ", ",")))
	}
}
