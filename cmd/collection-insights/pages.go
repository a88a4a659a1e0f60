package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/collection-insights/internal/common"
	"github.com/joseph-ayodele/collection-insights/internal/pdf"
)

var pagesCmd = &cobra.Command{
	Use:   "pages <file.pdf>",
	Short: "Print the normalized text of every page, as the model would see it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := common.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger := newLogger(cfg)

		extractor, err := pdf.NewExtractor(pdf.Config{Backend: cfg.PDF.Backend, Pdftotext: cfg.PDF.Pdftotext}, nil, logger)
		if err != nil {
			return err
		}
		pages, err := extractor.ExtractPages(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for i, text := range pages {
			label := fmt.Sprintf(" page %d ", i+1)
			if strings.TrimSpace(text) == "" {
				label += "(blank, skipped) "
			}
			fmt.Fprintln(w, titleStyle.Render(label))
			fmt.Fprintln(w, text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pagesCmd)
}
