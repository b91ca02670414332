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

var compressCmd = &cobra.Command{
	Use:   "compress <input> <output>",
	Short: "Compress a file",
	Long: `Compress a file with the selected format.

The format's extension is appended to the output path: .gz, .zst, .lz4 or
.zip. The compression level is on the codec's own scale and is clamped to
the range the codec supports.

Examples:
  # Writes backup.tar.gz
  squash compress backup.tar backup.tar

  # Writes gs://my-bucket/logs/app.log.zst
  squash compress -f zstd app.log gs://my-bucket/logs/app.log`,
	Args: cobra.ExactArgs(2),
	RunE: runCompress,
}

var (
	compressFormat string
	compressLevel  int
)

func init() {
	compressCmd.Flags().StringVarP(&compressFormat, "format", "f", "gzip", "compression format: "+strings.Join(squash.Formats(), ", "))
	compressCmd.Flags().IntVarP(&compressLevel, "compression-level", "c", squash.DefaultLevel, "compression level")
	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) (err error) {
	input := args[0]
	output := squash.OutputPath(args[1], compressFormat)

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	res, err := s.client.Compress(ctx, input, output, compressFormat, compressLevel)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Compression complete")
	fmt.Fprintf(cmd.OutOrStdout(), "  Output: %s\n", res.Output)
	fmt.Fprintf(cmd.OutOrStdout(), "  Size:   %s -> %s (%.1f%%)\n",
		progress.FormatBytes(res.BytesRead), progress.FormatBytes(res.BytesWritten), res.Ratio())
	return nil
}
