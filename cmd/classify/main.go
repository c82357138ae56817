package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go-image-classifier/internal/config"
	"go-image-classifier/internal/container"
	"go-image-classifier/internal/logger"
	"go-image-classifier/internal/service"
	"go-image-classifier/internal/sink"
	"go-image-classifier/internal/storage"
	"go-image-classifier/pkg/models"

	"github.com/sirupsen/logrus"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

type cliOptions struct {
	file       string
	folder     string
	output     string
	binary     bool
	prompt     string
	configPath string
}

var errUsage = errors.New("exactly one of --file or --folder is required")

func parseArgs(args []string, stderr io.Writer) (*cliOptions, error) {
	opts := &cliOptions{}
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.file, "file", "", "path to a single image")
	fs.StringVar(&opts.folder, "folder", "", "folder of images to classify")
	fs.StringVar(&opts.output, "output", "results.csv", "results file, appended to if it exists")
	fs.BoolVar(&opts.binary, "binary", true, "expect a 1/0 answer; --binary=false keeps the raw text")
	fs.StringVar(&opts.prompt, "prompt", service.DefaultPrompt, "instruction sent with every image")
	fs.StringVar(&opts.configPath, "config", "", "optional YAML config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if (opts.file == "") == (opts.folder == "") {
		fmt.Fprintln(stderr, errUsage)
		fs.Usage()
		return nil, errUsage
	}
	return opts, nil
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return exitFatal
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	c, err := container.NewContainer(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize container")
		return exitFatal
	}

	results, err := sink.Open(opts.output)
	if err != nil {
		logger.WithError(err).WithField("output", opts.output).Error("Failed to open results file")
		return exitFatal
	}

	options := service.DefaultOptions().WithPrompt(opts.prompt).WithBinary(opts.binary)
	driver := c.NewDriver(results, options)

	output := results.Path()
	var report *models.RunReport
	if opts.file != "" {
		report, err = driver.RunFile(ctx, opts.file)
	} else {
		report, err = driver.RunFolder(ctx, opts.folder)
	}
	if closeErr := results.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		logger.WithError(err).Error("Classification run failed")
		return exitFatal
	}

	if uploader := c.Uploader(); uploader != nil {
		uploadResults(ctx, uploader, report, output)
	}

	logger.WithFields(logrus.Fields{
		"run_id":    report.RunID.String(),
		"processed": report.Processed,
		"failed":    report.Failed,
		"output":    output,
	}).Infof("Results saved to %s", output)
	return exitOK
}

// uploadResults pushes the results file to blob storage; failures are only logged.
func uploadResults(ctx context.Context, uploader storage.ResultUploader, report *models.RunReport, output string) {
	blobName := storage.ResultBlobName(report.RunID.String(), output)
	location, err := uploader.UploadResults(ctx, blobName, output)
	if err != nil {
		logger.WithError(err).WithField("blob", blobName).Warn("Failed to upload results")
		return
	}
	logger.WithField("location", location).Info("Results uploaded")
}
