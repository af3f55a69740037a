package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kinlink/am"
	"github.com/teranos/kinlink/doctree"
	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/ixgest"
	"github.com/teranos/kinlink/markup"
	"github.com/teranos/kinlink/sym"
)

// ParseCmd lists the statements of one document without touching the database
var ParseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: sym.Doc + " Show the record statements of one document",
	Long: sym.Doc + ` parse - Show the record statements of one document

The statement comment is tokenized and every statement is classified by
its tag. Nothing is stored.

Examples:
  kinlink parse refs/RD12.htm`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	path := args[0]
	tree, _, err := doctree.ParseFile(path)
	if err != nil {
		return err
	}

	if refID, ok := ixgest.RefIDFromPath(path); ok {
		pterm.Info.Printf("Reference RD%d\n", refID)
	} else {
		pterm.Warning.Printf("%s is not named RD<n>; ingest would skip it\n", path)
	}
	if tree.FindElement(tree.Root, "body") == doctree.None {
		pterm.Warning.Println("Document has no body; ingest would roll it back")
	}

	marker := cfg.Markup.Marker
	if marker == "" {
		marker = markup.DefaultMarker
	}
	text, ok := tree.FirstComment(tree.Root, marker)
	if !ok {
		pterm.Warning.Printf("No %s comment found\n", marker)
		return nil
	}

	data := pterm.TableData{{"#", "Symbol", "Kind", "Payload"}}
	for i, stmt := range markup.Tokenize(text) {
		st, ok := markup.ParseStatement(stmt)
		if !ok {
			data = append(data, []string{fmt.Sprint(i), "", pterm.Gray("ignored"), stmt})
			continue
		}
		kind := st.Kind.String()
		if st.Kind == markup.KindUnknown {
			kind = pterm.Yellow(kind)
		}
		data = append(data, []string{fmt.Sprint(i), st.Local, kind, st.Payload})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
