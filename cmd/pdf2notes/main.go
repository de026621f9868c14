package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-to-notes/internal/annotate"
)

func main() {
	root := &cobra.Command{
		Use:   "pdf2notes",
		Short: "Annotate lecture slide PDFs with generated study notes",
	}

	root.AddCommand(annotateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, annotate.ErrPartial) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
