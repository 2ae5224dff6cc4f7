package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	sisiio "github.com/matzehuels/sisi/pkg/io"
	"github.com/matzehuels/sisi/pkg/line"
	"github.com/matzehuels/sisi/pkg/render"
	"github.com/matzehuels/sisi/pkg/solve"
)

// batchCommand creates the batch command that solves every line of a file.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		workers int
		format  string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Solve every line of a TOML or JSON batch file",
		Long: `Solve every line of a batch file in parallel.

TOML batch files hold one [[line]] table per line with name, size, blocks
and an optional known string. JSON files use the same field names.`,
		Example: `  sisi batch puzzle.toml
  sisi batch puzzle.json --workers 8 --format json -o solved.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			reqs, err := sisiio.ImportBatch(args[0])
			if err != nil {
				return err
			}
			logger.Debug("read batch", "file", args[0], "lines", len(reqs))

			if workers <= 0 {
				workers = c.Config.Solve.Workers
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(logger)
			spinner := newLineSpinner(ctx, os.Stderr, "Solving lines", len(reqs))
			runner.Progress = func(done, _ int) { spinner.Advance(done) }
			spinner.Start()
			results, err := runner.SolveBatch(ctx, reqs, workers)
			spinner.Stop()
			if err != nil {
				return err
			}
			prog.done("solved batch", "lines", len(results), "workers", workers)

			if format == formatJSON {
				out, err := openOutput(output)
				if err != nil {
					return err
				}
				defer out.Close()
				if err := sisiio.WriteResults(out, results, c.Config.Glyphs); err != nil {
					return err
				}
				if output != "" {
					printFile(output)
				}
				return nil
			}

			fmt.Println(resultTable(results, c.Config.Glyphs))
			printBatchSummary(results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel workers (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for json (stdout if empty)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// resultTable renders batch results as a bordered table.
func resultTable(results []solve.Result, g render.Glyphs) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(results))
	for i, res := range results {
		name := res.Name
		if name == "" {
			name = strconv.Itoa(i + 1)
		}
		status, cells := "", ""
		switch {
		case res.Failed():
			status = string(res.Code)
		case res.Contradiction:
			status = "contradiction"
		case render.Summarize(res.States).Solved():
			status = "solved"
		default:
			status = "partial"
		}
		if !res.Failed() {
			cells = render.Text(res.States, g)
		}
		rows[i] = []string{name, strconv.Itoa(res.Size), line.FormatBlocks(res.Blocks), cells, strconv.Itoa(res.Placements), status}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Line", "Size", "Clue", "Cells", "Placements", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(results) {
				return lipgloss.NewStyle()
			}
			res := results[row]
			switch {
			case res.Failed():
				return lipgloss.NewStyle().Foreground(colorRed)
			case res.Contradiction:
				return lipgloss.NewStyle().Foreground(colorYellow)
			case col == 3:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})
	return t.Render()
}

func printBatchSummary(results []solve.Result) {
	var failed, cached, contradictions int
	for _, res := range results {
		switch {
		case res.Failed():
			failed++
		case res.Contradiction:
			contradictions++
		}
		if res.Cached {
			cached++
		}
	}
	printKeyValue("Lines", strconv.Itoa(len(results)))
	printKeyValue("Cached", strconv.Itoa(cached))
	if contradictions > 0 {
		printWarning("%d lines have no placement", contradictions)
	}
	if failed > 0 {
		printError("%d of %d lines failed validation", failed, len(results))
	}
}
