package workflow

import (
	"context"
	"strings"
)

// Analysis summarizes a script for improvement purposes.
type Analysis struct {
	WordCount            int      `json:"word_count"`
	CharacterCount       int      `json:"character_count"`
	EstimatedReadingMins float64  `json:"estimated_reading_time"`
	Suggestions          []string `json:"suggestions"`
}

// Improvement is one suggested change to a script.
type Improvement struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// ImprovementOutcome is the data payload of a completed script improvement
// run.
type ImprovementOutcome struct {
	OriginalScript string        `json:"original_script"`
	ImprovedScript string        `json:"improved_script,omitempty"`
	Analysis       Analysis      `json:"analysis"`
	Improvements   []Improvement `json:"improvements"`
	AutoApplied    bool          `json:"auto_applied"`
}

// Words-per-minute assumed when estimating reading time.
const readingSpeedWPM = 150

// ScriptImprovement analyzes a script and produces prioritized improvement
// suggestions, optionally applying them to the current script.
//
// Optional params: improvement_type (professional, dramatic, clarity,
// default general) and auto_apply (bool).
type ScriptImprovement struct {
	Base
}

// NewScriptImprovement creates the script improvement workflow.
func NewScriptImprovement() *ScriptImprovement {
	return &ScriptImprovement{
		Base: NewBase(
			"script_improvement",
			"Automatically analyze and improve script content",
			"script_content",
		),
	}
}

// Execute runs the improvement stages, reporting progress after each.
func (w *ScriptImprovement) Execute(ctx context.Context, progress ProgressFunc) Result {
	scriptContent := w.StringParam("script_content", "")
	improvementType := w.StringParam("improvement_type", "general")

	if strings.TrimSpace(scriptContent) == "" {
		return Fail("no script content provided")
	}

	progress("Analyzing script content...", 0.2)
	analysis := analyzeScript(scriptContent)
	progress("Script analysis complete", 0.4)

	improvements := generateImprovements(improvementType, analysis)
	progress("Generated improvement suggestions", 0.6)

	if !w.BoolParam("auto_apply", false) {
		progress("Improvement suggestions ready", 1.0)
		return Succeed(ImprovementOutcome{
			OriginalScript: scriptContent,
			Analysis:       analysis,
			Improvements:   improvements,
		})
	}

	improved := applyImprovements(scriptContent, improvements)
	progress("Applied improvements to script", 0.8)

	if w.Manager != nil {
		w.Manager.UpdateScript(improved)
	}
	progress("Script updated successfully", 1.0)

	return Succeed(ImprovementOutcome{
		OriginalScript: scriptContent,
		ImprovedScript: improved,
		Analysis:       analysis,
		Improvements:   improvements,
		AutoApplied:    true,
	})
}

// analyzeScript computes counts and canned suggestions.
func analyzeScript(content string) Analysis {
	words := wordCount(content)
	analysis := Analysis{
		WordCount:            words,
		CharacterCount:       len(content),
		EstimatedReadingMins: float64(words) / readingSpeedWPM,
	}

	if words < 50 {
		analysis.Suggestions = append(analysis.Suggestions,
			"Script is quite short - consider expanding with more detail")
	} else if words > 500 {
		analysis.Suggestions = append(analysis.Suggestions,
			"Script is lengthy - consider breaking into sections")
	}
	if !strings.ContainsAny(content, ".!?") {
		analysis.Suggestions = append(analysis.Suggestions,
			"Add punctuation to improve readability")
	}

	return analysis
}

// generateImprovements maps the improvement type to a priority-tagged list
// and appends the analysis suggestions.
func generateImprovements(improvementType string, analysis Analysis) []Improvement {
	var improvements []Improvement

	switch improvementType {
	case "professional":
		improvements = append(improvements, Improvement{
			Type:        "tone",
			Description: "Make tone more professional and polished",
			Priority:    "high",
		})
	case "dramatic":
		improvements = append(improvements, Improvement{
			Type:        "drama",
			Description: "Add dramatic elements and emotional depth",
			Priority:    "medium",
		})
	case "clarity":
		improvements = append(improvements, Improvement{
			Type:        "clarity",
			Description: "Improve clarity and readability",
			Priority:    "high",
		})
	}

	for _, suggestion := range analysis.Suggestions {
		improvements = append(improvements, Improvement{
			Type:        "general",
			Description: suggestion,
			Priority:    "low",
		})
	}

	return improvements
}

// applyImprovements appends an audit note listing the applied improvement
// types.
func applyImprovements(content string, improvements []Improvement) string {
	types := make([]string, 0, len(improvements))
	for _, imp := range improvements {
		types = append(types, imp.Type)
	}
	return content + "\n\n[AUTO-IMPROVED: Applied " + strings.Join(types, ", ") + "]"
}
