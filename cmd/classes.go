package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MainbaseT/sol2uml/pkg/solidity"
	"github.com/MainbaseT/sol2uml/pkg/sourceMerger"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	kindColor   = color.New(color.FgCyan, color.Bold)
	nameColor   = color.New(color.FgGreen)
	pathColor   = color.New(color.FgHiBlack)
	importColor = color.New(color.FgYellow)
)

var classesCmd = &cobra.Command{
	Use:   "classes <address>",
	Short: "List the contracts, interfaces and libraries of a contract's source files in dependency order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := setup(cmd)
		if err != nil {
			return err
		}
		sink, err := newMetricsSink(cfg, l)
		if err != nil {
			return errors.Wrap(err, "failed to setup metrics sink")
		}
		defer sink.Flush()

		sf, err := newSourceFetcher(cfg, sink, l)
		if err != nil {
			return err
		}

		filename, _ := cmd.Flags().GetString(flagFilename)

		result, err := sf.FetchSourceCode(cmd.Context(), args[0], filename)
		if err != nil {
			return err
		}

		sm := sourceMerger.NewDefaultSourceMerger(nil, sink, l)
		umlClasses, err := sm.GetUmlClasses(result)
		if err != nil {
			return err
		}

		printClasses(os.Stdout, solidity.NewSorter().SortClasses(umlClasses.Classes))
		return nil
	},
}

func printClasses(w io.Writer, classes []*solidity.Class) {
	for _, c := range classes {
		line := fmt.Sprintf("%s %s", kindColor.Sprint(c.Kind), nameColor.Sprint(c.Name))
		if len(c.Bases) > 0 {
			line += " is " + strings.Join(c.Bases, ", ")
		}
		fmt.Fprintf(w, "%s %s\n", line, pathColor.Sprintf("(%s)", c.RelativePath))
		for _, imp := range c.Imports {
			fmt.Fprintf(w, "    import %s\n", importColor.Sprint(imp.ResolvedPath))
		}
	}
}
