package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/discochess/squash"
	"github.com/discochess/squash/internal/progress"
)

var decompressCmd = &cobra.Command{
	Use:   "decompress <input> <output>",
	Short: "Decompress a file",
	Long: `Decompress a file with the selected format.

The output path is used exactly as given. For zip archives only the first
entry is extracted.

Examples:
  squash decompress backup.tar.gz backup.tar
  squash decompress -f zip s3://my-bucket/report.zip report.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runDecompress,
}

var decompressFormat string

func init() {
	decompressCmd.Flags().StringVarP(&decompressFormat, "format", "f", "gzip", "compression format: "+strings.Join(squash.Formats(), ", "))
	rootCmd.AddCommand(decompressCmd)
}

func runDecompress(cmd *cobra.Command, args []string) (err error) {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	res, err := s.client.Decompress(ctx, args[0], args[1], decompressFormat)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Decompression complete")
	fmt.Fprintf(cmd.OutOrStdout(), "  Output: %s\n", res.Output)
	fmt.Fprintf(cmd.OutOrStdout(), "  Size:   %s -> %s\n",
		progress.FormatBytes(res.BytesRead), progress.FormatBytes(res.BytesWritten))
	return nil
}
