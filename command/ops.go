package command

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/preview"
)

// BatchRequest exports one saved CV file.
type BatchRequest struct {
	Input    string              `json:"input"`
	Format   export.Format       `json:"format"`
	Strategy export.StrategyName `json:"strategy"`
	Quality  export.Quality      `json:"quality"`
}

// BatchLoader loads batch requests from a source.
type BatchLoader func(ctx context.Context) ([]BatchRequest, error)

// RecordDecoder turns a JSON export back into a record.
type RecordDecoder interface {
	ImportJSON(data []byte) (cv.Record, error)
}

// BatchExporter exports records that are not the session's current one.
type BatchExporter interface {
	Export(ctx context.Context, record cv.Record, el *preview.Element, req export.Request) (export.Result, error)
}

// BatchCommand exports a list of CV files without touching the session.
type BatchCommand struct {
	decoder    RecordDecoder
	exporter   BatchExporter
	loader     BatchLoader
	cliConfig  gcmd.CLIConfig
	cronConfig gcmd.HandlerConfig
	limits     BatchLimits
	sleep      func(time.Duration)
}

// BatchOption customizes batch commands.
type BatchOption func(*BatchCommand)

// BatchLimits bounds batch execution throughput.
type BatchLimits struct {
	MaxRequests int
	MinInterval time.Duration
}

// WithBatchCLIConfig overrides CLI configuration.
func WithBatchCLIConfig(cfg gcmd.CLIConfig) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.cliConfig = cfg
	}
}

// WithBatchCronConfig overrides cron configuration.
func WithBatchCronConfig(cfg gcmd.HandlerConfig) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.cronConfig = cfg
	}
}

// WithBatchLimits overrides batch execution limits.
func WithBatchLimits(limits BatchLimits) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.limits = limits
	}
}

// NewBatchExportCommand creates the batch export CLI/Cron command.
func NewBatchExportCommand(decoder RecordDecoder, exporter BatchExporter, loader BatchLoader, opts ...BatchOption) *BatchCommand {
	cmd := &BatchCommand{
		decoder:  decoder,
		exporter: exporter,
		loader:   loader,
		cliConfig: gcmd.CLIConfig{
			Path:        []string{"cv-batch-export"},
			Description: "Export saved CV files",
			Group:       "cv",
		},
		cronConfig: gcmd.HandlerConfig{Expression: "0 0 * * *"},
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cmd)
		}
	}
	return cmd
}

// CronHandler executes the batch.
func (c *BatchCommand) CronHandler() func() error {
	return func() error {
		_, err := c.run(context.Background(), "")
		return err
	}
}

// CronOptions returns cron configuration.
func (c *BatchCommand) CronOptions() gcmd.HandlerConfig {
	if c == nil {
		return gcmd.HandlerConfig{}
	}
	return c.cronConfig
}

// CLIHandler exposes the CLI handler.
func (c *BatchCommand) CLIHandler() any {
	return &batchCLI{cmd: c}
}

// CLIOptions returns CLI configuration.
func (c *BatchCommand) CLIOptions() gcmd.CLIConfig {
	if c == nil {
		return gcmd.CLIConfig{}
	}
	return c.cliConfig
}

func (c *BatchCommand) run(ctx context.Context, from string) ([]export.Result, error) {
	if c == nil {
		return nil, errors.New("batch command is nil", errors.CategoryInternal).
			WithTextCode("BATCH_CMD_NIL")
	}
	if c.decoder == nil || c.exporter == nil {
		return nil, errors.New("batch decoder and exporter are required", errors.CategoryValidation).
			WithTextCode("EXPORTER_REQUIRED")
	}

	requests, err := c.loadRequests(ctx, from)
	if err != nil {
		return nil, err
	}

	results := make([]export.Result, 0, len(requests))
	for _, item := range requests {
		if c.limits.MaxRequests > 0 && len(results) >= c.limits.MaxRequests {
			break
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := c.exportOne(ctx, item)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if c.limits.MinInterval > 0 && c.sleep != nil {
			c.sleep(c.limits.MinInterval)
		}
	}
	return results, nil
}

func (c *BatchCommand) exportOne(ctx context.Context, item BatchRequest) (export.Result, error) {
	content, err := os.ReadFile(item.Input)
	if err != nil {
		return export.Result{}, errors.Wrap(err, errors.CategoryExternal, "read cv file failed").
			WithTextCode("CV_FILE_READ")
	}
	record, err := c.decoder.ImportJSON(content)
	if err != nil {
		return export.Result{}, err
	}
	// Without a live preview only the vector strategy can draw the record.
	strategy := item.Strategy
	if strategy == "" {
		strategy = export.StrategyVector
	}
	return c.exporter.Export(ctx, record, nil, export.Request{
		Format:   item.Format,
		Strategy: strategy,
		Quality:  item.Quality,
	})
}

func (c *BatchCommand) loadRequests(ctx context.Context, from string) ([]BatchRequest, error) {
	if strings.TrimSpace(from) != "" {
		return loadBatchRequestsFromFile(from)
	}
	if c.loader == nil {
		return nil, errors.New("batch loader not configured", errors.CategoryValidation).
			WithTextCode("LOADER_REQUIRED")
	}
	return c.loader(ctx)
}

type batchCLI struct {
	cmd  *BatchCommand
	From string `kong:"name='from',help='Path to JSON batch export requests'"`
}

func (c *batchCLI) Run() error {
	if c == nil || c.cmd == nil {
		return errors.New("batch command is required", errors.CategoryInternal).
			WithTextCode("BATCH_CMD_NIL")
	}
	_, err := c.cmd.run(context.Background(), c.From)
	return err
}

func loadBatchRequestsFromFile(path string) ([]BatchRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "read batch file failed").
			WithTextCode("BATCH_FILE_READ")
	}

	var requests []BatchRequest
	if err := json.Unmarshal(content, &requests); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "batch file invalid JSON").
			WithTextCode("BATCH_FILE_INVALID")
	}
	base := filepath.Dir(path)
	for i := range requests {
		if requests[i].Input != "" && !filepath.IsAbs(requests[i].Input) {
			requests[i].Input = filepath.Join(base, requests[i].Input)
		}
	}
	return requests, nil
}

// DirectoryLoader returns a loader exporting every .json file in dir to format.
func DirectoryLoader(dir string, format export.Format) BatchLoader {
	return func(ctx context.Context) ([]BatchRequest, error) {
		_ = ctx
		matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryValidation, "invalid batch directory").
				WithTextCode("BATCH_DIR_INVALID")
		}
		requests := make([]BatchRequest, 0, len(matches))
		for _, match := range matches {
			requests = append(requests, BatchRequest{Input: match, Format: format})
		}
		return requests, nil
	}
}

// CLIHandler exposes history pruning via CLI.
func (h *PruneHistoryHandler) CLIHandler() any {
	return &pruneCLI{handler: h}
}

// CLIOptions describes the prune CLI metadata.
func (h *PruneHistoryHandler) CLIOptions() gcmd.CLIConfig {
	return gcmd.CLIConfig{
		Path:        []string{"cv-history-prune"},
		Description: "Remove old export history entries",
		Group:       "cv",
	}
}

type pruneCLI struct {
	handler *PruneHistoryHandler
	MaxAge  time.Duration `kong:"name='max-age',help='Remove entries older than this'"`
}

func (c *pruneCLI) Run() error {
	if c == nil || c.handler == nil {
		return errors.New("prune handler is required", errors.CategoryInternal).
			WithTextCode("PRUNE_HANDLER_REQUIRED")
	}
	return c.handler.Execute(context.Background(), PruneHistory{MaxAge: c.MaxAge})
}
