package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the text extracted from a PDF, TXT or DOCX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		res, err := extractPath(cmd.Context(), args[0], cfg.Server.MaxUploadBytes)
		if err != nil {
			return err
		}
		logger.Debug("extracted document", "format", res.Format.String(), "pages", res.PageCount, "chars", len(res.Text))

		text := res.Text
		if text[len(text)-1] != '\n' {
			text += "\n"
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}
