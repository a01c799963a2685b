// This file implements the figure command and the image loading shared with
// the interactive session's /figure directive.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyper-light/quill/core/flow"
)

var figureConfigPath string

var figureCmd = &cobra.Command{
	Use:   "figure <image> [caption]",
	Short: "Interpret a figure image into a structured description",
	Long: `Interpret a figure image into a structured description: a title
and a detailed account of what the figure shows, suitable for referencing
from manuscript prose.

Within an interactive draft session, use "/figure <image> [caption]" instead
so the figure joins the session's figure store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFigure,
}

func init() {
	figureCmd.Flags().StringVarP(&figureConfigPath, "config", "c", "", "path to the config file")

	rootCmd.AddCommand(figureCmd)
}

func runFigure(cmd *cobra.Command, args []string) error {
	mime, data, err := loadImage(args[0])
	if err != nil {
		return err
	}

	run, err := buildRunner(cmd.Context(), figureConfigPath)
	if err != nil {
		return err
	}

	input := flow.Input{
		Text:      strings.Join(args[1:], " "),
		ImageMIME: mime,
		ImageData: data,
	}

	result, err := run.Run(cmd.Context(), input, nil)
	if err != nil {
		return renderError(err)
	}

	fmt.Println(result.Output)

	return nil
}

var imageMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

func loadImage(path string) (string, []byte, error) {
	mime, ok := imageMIMETypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", nil, fmt.Errorf("unsupported image type %q", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	return mime, data, nil
}
