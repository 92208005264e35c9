// Package pipeline runs the bill-extraction flow: scratch PDF -> text ->
// one model invocation -> JSON reconciliation -> cost estimate -> cleanup.
// Comparison mode repeats the model leg sequentially over a model list.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/tanmodi/oorja-backend/constants"
	"github.com/tanmodi/oorja-backend/internal/common"
	"github.com/tanmodi/oorja-backend/internal/extract"
	"github.com/tanmodi/oorja-backend/internal/llm"
	"github.com/tanmodi/oorja-backend/internal/pricing"
	"github.com/tanmodi/oorja-backend/internal/repository"
	"github.com/tanmodi/oorja-backend/internal/scratch"
)

// Timing is the wall-clock record for one model's run.
type Timing struct {
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMS  int64     `json:"duration_ms"`
}

// ModelResult is one entry of a comparison batch (and the body of a
// single-model response). On failure Error is set and Fields/Usage/Pricing
// are null; the entry still counts.
type ModelResult struct {
	Model   string              `json:"model"`
	Status  constants.RunStatus `json:"status"`
	Fields  llm.BillFields      `json:"data"`
	Usage   *llm.Usage          `json:"usage"`
	Pricing *pricing.Result     `json:"pricing"`
	Timing  Timing              `json:"timing"`
	Error   string              `json:"error,omitempty"`
}

// Pipeline wires the stages together. All collaborators are injected so the
// whole flow runs in tests without a network credential or a real PDF tool.
type Pipeline struct {
	logger    *slog.Logger
	extractor extract.TextExtractor
	invoker   llm.Invoker
	registry  *llm.Registry
	prices    *pricing.Table
	usageRepo repository.UsageRepository
	scratch   *scratch.Store
}

func New(
	logger *slog.Logger,
	extractor extract.TextExtractor,
	invoker llm.Invoker,
	registry *llm.Registry,
	prices *pricing.Table,
	usageRepo repository.UsageRepository,
	store *scratch.Store,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = llm.DefaultRegistry()
	}
	if prices == nil {
		prices = pricing.DefaultTable()
	}
	if usageRepo == nil {
		usageRepo = repository.NopUsageRepository{}
	}
	return &Pipeline{
		logger:    logger,
		extractor: extractor,
		invoker:   invoker,
		registry:  registry,
		prices:    prices,
		usageRepo: usageRepo,
		scratch:   store,
	}
}

// Registry exposes the active model table (handlers list it, the CLI prints it).
func (p *Pipeline) Registry() *llm.Registry { return p.registry }

// ExtractBill runs the single-model pipeline for a scratch file. The scratch
// file is removed on every exit path. A model id of "" uses the default model.
func (p *Pipeline) ExtractBill(ctx context.Context, scratchPath, originalName, modelID string) (ModelResult, error) {
	defer p.cleanup(scratchPath)

	text, err := p.extractText(ctx, scratchPath, originalName)
	if err != nil {
		return ModelResult{}, err
	}

	profile := p.registry.Resolve(modelID)
	res := p.runModel(ctx, originalName, profile, llm.BuildPrompt(text))
	if res.Status == constants.RunStatusFailed {
		return res, common.NewAppError("PIPELINE_ERROR", res.Error, common.ErrInternal)
	}
	if len(res.Fields) == 0 {
		return res, common.NewAppError("EMPTY_RESULT",
			"model returned an empty field map", common.ErrNoUsableData)
	}
	return res, nil
}

// CompareBill runs the pipeline once per model id, strictly sequentially.
// A model's failure is recorded in its entry and never aborts the rest of
// the batch. The scratch file is deleted exactly once, after all models.
func (p *Pipeline) CompareBill(ctx context.Context, scratchPath, originalName string, modelIDs []string) ([]ModelResult, error) {
	defer p.cleanup(scratchPath)

	text, err := p.extractText(ctx, scratchPath, originalName)
	if err != nil {
		return nil, err
	}
	if len(modelIDs) == 0 {
		modelIDs = p.registry.IDs()
	}
	prompt := llm.BuildPrompt(text)

	results := make([]ModelResult, 0, len(modelIDs))
	for _, id := range modelIDs {
		profile := p.registry.Resolve(id)
		results = append(results, p.runModel(ctx, originalName, profile, prompt))
	}
	return results, nil
}

func (p *Pipeline) extractText(ctx context.Context, path, originalName string) (string, error) {
	start := time.Now()
	p.logger.Info("pipeline.extract.start", "file", originalName, "req_id", common.RequestIDFromContext(ctx))
	res, err := p.extractor.Extract(ctx, path)
	if err != nil {
		p.logger.Error("pipeline.extract.failed", "file", originalName, "error", err)
		return "", err
	}
	p.logger.Info("pipeline.extract.ok",
		"file", originalName,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res.Text, nil
}

// runModel is the per-model leg: invoke -> reconcile -> price. Every outcome,
// success or failure, lands in the usage ledger.
func (p *Pipeline) runModel(ctx context.Context, filename string, profile llm.ModelProfile, prompt llm.Prompt) ModelResult {
	res := ModelResult{
		Model:  profile.ID,
		Status: constants.RunStatusPending,
		Timing: Timing{StartedAt: time.Now().UTC()},
	}

	res.Status = constants.RunStatusInvoking
	reply, err := p.invoker.Invoke(ctx, profile, prompt)
	if err != nil {
		return p.finish(ctx, filename, res, err)
	}

	res.Status = constants.RunStatusParsing
	usage := reply.Usage
	res.Usage = &usage
	fields, err := llm.Reconcile(profile.ID, reply.Text)
	if err != nil {
		return p.finish(ctx, filename, res, err)
	}
	res.Fields = fields

	// Pricing degrades, never fails.
	priced := pricing.Calculate(p.prices, profile.ID, &usage)
	res.Pricing = &priced
	res.Status = constants.RunStatusPriced

	res.Status = constants.RunStatusDone
	return p.finish(ctx, filename, res, nil)
}

func (p *Pipeline) finish(ctx context.Context, filename string, res ModelResult, err error) ModelResult {
	res.Timing.CompletedAt = time.Now().UTC()
	res.Timing.DurationMS = res.Timing.CompletedAt.Sub(res.Timing.StartedAt).Milliseconds()

	if err != nil {
		res.Status = constants.RunStatusFailed
		res.Error = err.Error()
		p.logger.Error("pipeline.model.failed",
			"model", res.Model, "file", filename, "error", err,
			"duration_ms", res.Timing.DurationMS,
		)
	} else {
		p.logger.Info("pipeline.model.ok",
			"model", res.Model, "file", filename,
			"fields", len(res.Fields),
			"duration_ms", res.Timing.DurationMS,
		)
	}

	rec := repository.UsageRecord{
		RequestID:   common.RequestIDFromContext(ctx),
		Filename:    filename,
		Model:       res.Model,
		Status:      res.Status,
		DurationMS:  res.Timing.DurationMS,
		RequestedAt: res.Timing.StartedAt,
	}
	if res.Usage != nil {
		rec.PromptTokens = res.Usage.PromptTokens
		rec.CompletionTokens = res.Usage.CompletionTokens
		rec.TotalTokens = res.Usage.TotalTokens
	}
	if res.Pricing != nil {
		rec.InputCost = res.Pricing.InputCost
		rec.OutputCost = res.Pricing.OutputCost
		rec.TotalCost = res.Pricing.TotalCost
	}
	rec.ErrorMessage = res.Error
	if recErr := p.usageRepo.Record(ctx, rec); recErr != nil {
		// Metering is best-effort; a ledger hiccup must not fail the request.
		p.logger.Warn("pipeline.ledger_record_failed", "model", res.Model, "error", recErr)
	}

	// Failed entries report null data/usage/pricing; the ledger row above
	// still keeps whatever counters the run produced before it failed.
	if err != nil {
		res.Fields = nil
		res.Usage = nil
		res.Pricing = nil
	}
	return res
}

func (p *Pipeline) cleanup(path string) {
	if p.scratch != nil {
		p.scratch.Remove(path)
	}
}
