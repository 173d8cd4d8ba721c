package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfaudio/studio-mcp/internal/domain/capability"
	"github.com/wolfaudio/studio-mcp/internal/domain/session"
)

const (
	// speakingWPM is the assumed spoken delivery rate.
	speakingWPM = 150
	// readingWPM is the assumed silent reading rate.
	readingWPM = 200

	shortScriptWords = 50
	longScriptWords  = 500
)

// AnalyzeScript reports word, character, and timing statistics for a
// script, with suggestions for common delivery problems.
type AnalyzeScript struct {
	capability.ToolInfo
}

// NewAnalyzeScript creates the analysis tool.
func NewAnalyzeScript() *AnalyzeScript {
	return &AnalyzeScript{
		ToolInfo: capability.NewToolInfo("analyze_script",
			"Analyzes a script's length, pacing, and delivery characteristics",
			"script_content"),
	}
}

// Execute runs the analysis.
func (t *AnalyzeScript) Execute(_ context.Context, params map[string]any, _ *session.Context) (any, error) {
	t.RecordExecution()

	script, _ := params["script_content"].(string)
	if strings.TrimSpace(script) == "" {
		return nil, fmt.Errorf("analyze_script requires script_content")
	}

	words := len(strings.Fields(script))
	sentences := countSentences(script)

	var suggestions []string
	if words < shortScriptWords {
		suggestions = append(suggestions, "Script is quite short; consider expanding the content")
	}
	if words > longScriptWords {
		suggestions = append(suggestions, "Long script; consider breaking into sections")
	}
	if sentences == 0 {
		suggestions = append(suggestions, "No sentence punctuation found; add punctuation for natural speech pauses")
	}

	readingMinutes := words / readingWPM
	if readingMinutes < 1 {
		readingMinutes = 1
	}

	return map[string]any{
		"word_count":                 words,
		"character_count":            len(script),
		"sentence_count":             sentences,
		"estimated_duration_seconds": float64(words) / speakingWPM * 60,
		"reading_time_minutes":       readingMinutes,
		"suggestions":                suggestions,
	}, nil
}

func countSentences(s string) int {
	count := 0
	for _, r := range s {
		switch r {
		case '.', '!', '?':
			count++
		}
	}
	return count
}
