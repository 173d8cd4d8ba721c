package workflow

import (
	"context"
	"fmt"
	"strings"
)

// Operations the batch workflow knows how to dispatch per item.
const (
	OpTTSGeneration     = "tts_generation"
	OpScriptImprovement = "script_improvement"
	OpProjectExport     = "project_export"
)

// ItemResult is the outcome of processing one batch item.
type ItemResult struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ItemRecord pairs a batch item with its result and position.
type ItemRecord struct {
	Item   map[string]any `json:"item"`
	Result ItemResult     `json:"result"`
	Index  int            `json:"index"`
}

// BatchOutcome is the data payload of a completed batch run.
type BatchOutcome struct {
	TotalItems int          `json:"total_items"`
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	Results    []ItemRecord `json:"results"`
	Operation  string       `json:"operation"`
}

// BatchProcessing iterates items sequentially, dispatching per-item work by
// operation name. A failing item does not abort the batch; progress is
// reported after each item, which is also where a paused run blocks.
type BatchProcessing struct {
	Base
}

// NewBatchProcessing creates the batch processing workflow.
func NewBatchProcessing() *BatchProcessing {
	return &BatchProcessing{
		Base: NewBase(
			"batch_processing",
			"Process multiple scripts or projects in sequence",
			"items", "operation",
		),
	}
}

// Execute processes the items one at a time in order.
func (w *BatchProcessing) Execute(ctx context.Context, progress ProgressFunc) Result {
	items := itemsParam(w.Params["items"])
	operation := w.StringParam("operation", OpTTSGeneration)

	if len(items) == 0 {
		return Fail("no items provided for batch processing")
	}

	progress(fmt.Sprintf("Starting batch processing of %d items", len(items)), 0.0)

	total := len(items)
	records := make([]ItemRecord, 0, total)
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return Fail("batch processing stopped: %v", err)
		}

		records = append(records, ItemRecord{
			Item:   item,
			Result: processItem(item, operation),
			Index:  i,
		})
		progress(fmt.Sprintf("Processing item %d of %d", i+1, total), float64(i+1)/float64(total))
	}

	progress("Batch processing completed", 1.0)

	successful := 0
	for _, rec := range records {
		if rec.Result.Success {
			successful++
		}
	}

	return Succeed(BatchOutcome{
		TotalItems: total,
		Successful: successful,
		Failed:     total - successful,
		Results:    records,
		Operation:  operation,
	})
}

// itemsParam accepts either a typed or untyped item slice.
func itemsParam(value any) []map[string]any {
	switch items := value.(type) {
	case []map[string]any:
		return items
	case []any:
		out := make([]map[string]any, 0, len(items))
		for _, item := range items {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			} else {
				out = append(out, map[string]any{"value": item})
			}
		}
		return out
	default:
		return nil
	}
}

func processItem(item map[string]any, operation string) ItemResult {
	switch operation {
	case OpTTSGeneration:
		return generateTTSForItem(item)
	case OpScriptImprovement:
		return improveScriptForItem(item)
	case OpProjectExport:
		return exportProjectForItem(item)
	default:
		return ItemResult{Success: false, Error: fmt.Sprintf("Unknown operation: %s", operation)}
	}
}

func generateTTSForItem(item map[string]any) ItemResult {
	script := stringField(item, "script")
	if script == "" {
		return ItemResult{Success: false, Error: "No script content"}
	}
	name := stringField(item, "name")
	if name == "" {
		name = "unknown"
	}
	return ItemResult{
		Success: true,
		Details: map[string]any{
			"audio_file": fmt.Sprintf("generated_audio_%s.wav", name),
			"duration":   float64(wordCount(script)) / readingSpeedWPM * 60,
		},
	}
}

func improveScriptForItem(item map[string]any) ItemResult {
	script := stringField(item, "script")
	if script == "" {
		return ItemResult{Success: false, Error: "No script content"}
	}
	analysis := analyzeScript(script)
	improvements := generateImprovements("general", analysis)
	return ItemResult{
		Success: true,
		Details: map[string]any{
			"original_length": len(script),
			"improved_length": len(applyImprovements(script, improvements)),
			"suggestions":     len(analysis.Suggestions),
		},
	}
}

func exportProjectForItem(item map[string]any) ItemResult {
	name := stringField(item, "name")
	if name == "" {
		return ItemResult{Success: false, Error: "No project name"}
	}
	return ItemResult{
		Success: true,
		Details: map[string]any{
			"export_file": fmt.Sprintf("%s_export.json", name),
		},
	}
}

func stringField(item map[string]any, key string) string {
	value, _ := item[key].(string)
	return strings.TrimSpace(value)
}
