package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fpang/s3-thumbnailer/internal/config"
	"github.com/fpang/s3-thumbnailer/internal/filehandler"
	"github.com/fpang/s3-thumbnailer/internal/lambdaboot"
	"github.com/fpang/s3-thumbnailer/internal/logging"
	"github.com/fpang/s3-thumbnailer/internal/thumbnail"
)

// CLI flags
var (
	logLevelFlag string
	regionFlag   string
	endpointFlag string
)

// rootCmd is the main Cobra command for the thumbnail CLI.
var rootCmd = &cobra.Command{
	Use:   "thumbnail-cli",
	Short: "Run the S3 thumbnail generator outside Lambda",
	Long: `thumbnail-cli exercises the same code path as the thumbnail Lambda.

Examples:
  thumbnail-cli invoke --event testdata/put-event.json
  thumbnail-cli invoke --event event.json --endpoint http://localhost:4566 --region us-east-1
  thumbnail-cli key uploads/photo.png archive.tar.gz
  thumbnail-cli resize photo.png photo-thumbnail.jpg`,
	SilenceUsage: true,
}

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Replay an S3 notification file against real buckets",
	Args:  cobra.NoArgs,
	RunE:  runInvoke,
}

var keyCmd = &cobra.Command{
	Use:   "key <object-key>...",
	Short: "Print the thumbnail key derived from each object key",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Default()
		for _, key := range args {
			fmt.Fprintln(cmd.OutOrStdout(), thumbnail.ThumbnailKey(key, cfg.Suffix))
		}
	},
}

var resizeCmd = &cobra.Command{
	Use:   "resize <input> <output>",
	Short: "Produce a thumbnail from a local image file",
	Args:  cobra.ExactArgs(2),
	RunE:  runResize,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "Log level: debug, info, warn, error")

	invokeCmd.Flags().StringP("event", "e", "", "Path to an S3 notification JSON file")
	_ = invokeCmd.MarkFlagRequired("event")
	invokeCmd.Flags().StringVar(&regionFlag, "region", "", "AWS region (default: from the credential chain)")
	invokeCmd.Flags().StringVar(&endpointFlag, "endpoint", "", "S3 endpoint override, e.g. a localstack URL")

	rootCmd.AddCommand(invokeCmd, keyCmd, resizeCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func runInvoke(cmd *cobra.Command, _ []string) error {
	logger := logging.New(logging.ParseLevel(logLevelFlag), cmd.ErrOrStderr())

	eventPath, _ := cmd.Flags().GetString("event")
	payload, err := os.ReadFile(eventPath)
	if err != nil {
		return fmt.Errorf("read event: %w", err)
	}

	opts := lambdaboot.AWSOptions{Region: regionFlag, Endpoint: endpointFlag}
	awsCfg, err := lambdaboot.InitAWS(cmd.Context(), opts)
	if err != nil {
		return err
	}

	gen, err := thumbnail.New(config.Default(), lambdaboot.NewS3Client(awsCfg, opts), logger,
		thumbnail.WithMetricsOutput(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	out, err := gen.Handle(cmd.Context(), payload)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runResize(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.ParseLevel(logLevelFlag), cmd.ErrOrStderr())
	cfg := config.Default()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	img, format, err := filehandler.Decode(data, cfg.AutoOrient)
	if err != nil {
		return err
	}
	logger.Info().
		Str("format", format).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("Size before resize")

	thumb := filehandler.Fit(img, cfg.MaxWidth, cfg.MaxHeight, cfg.Filter)
	logger.Info().
		Int("width", thumb.Bounds().Dx()).
		Int("height", thumb.Bounds().Dy()).
		Msg("Size after resize")

	var buf bytes.Buffer
	if err := filehandler.EncodeJPEG(&buf, thumb, cfg.JPEGQuality); err != nil {
		return err
	}
	if err := os.WriteFile(args[1], buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logger.Info().Str("output", args[1]).Int("bytes", buf.Len()).Msg("Thumbnail written")
	return nil
}
