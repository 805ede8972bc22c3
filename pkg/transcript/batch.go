package transcript

import (
	"context"
	"log/slog"
)

// Processor runs a set of files through an Extractor one at a time
type Processor struct {
	extractor *Extractor
	logger    *slog.Logger
}

// NewProcessor creates a batch processor. A nil extractor gets the defaults.
func NewProcessor(extractor *Extractor, logger *slog.Logger) *Processor {
	if extractor == nil {
		extractor = NewExtractor()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{extractor: extractor, logger: logger}
}

// Process extracts every file in order and merges episodes and errors in discovery order.
// Files are independent: a failing file only contributes errors. A cancelled context stops
// before the next file and is reported as an error.
func (p *Processor) Process(ctx context.Context, files []File) FileProcessingResult {
	result := newResult()

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			result.addError("processing stopped before %s: %v", f.Name, err)
			p.logger.Warn("batch cancelled", "processed", i, "remaining", len(files)-i)
			break
		}

		fileResult := p.extractor.ProcessFile(ctx, f)
		p.logger.Debug("file processed",
			"file", f.Name,
			"episodes", len(fileResult.Episodes),
			"errors", len(fileResult.Errors),
		)
		result.merge(fileResult)
	}

	p.logger.Info("batch processed",
		"files", len(files),
		"episodes", len(result.Episodes),
		"errors", len(result.Errors),
	)
	return result
}
