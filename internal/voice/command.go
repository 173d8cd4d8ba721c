package voice

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Placeholders substituted into the command template.
const (
	placeholderText   = "{text}"
	placeholderOutput = "{output}"
	placeholderVoice  = "{voice}"
	placeholderRate   = "{rate}"
	placeholderPitch  = "{pitch}"
)

// baseWordsPerMinute is the speaking rate at speed 1.0.
const baseWordsPerMinute = 200

// CommandEngine synthesizes speech by invoking an external TTS command,
// such as espeak. The argument template uses {text}, {output}, {voice},
// {rate} and {pitch} placeholders.
type CommandEngine struct {
	command  string
	args     []string
	audioDir string
	voices   []string
}

// NewCommandEngine creates an engine around the given command template.
// An empty template defaults to espeak writing a wav file.
func NewCommandEngine(command string, args []string, audioDir string) *CommandEngine {
	if command == "" {
		command = "espeak"
		args = []string{"-v", placeholderVoice, "-s", placeholderRate, "-p", placeholderPitch, "-w", placeholderOutput, placeholderText}
	}
	return &CommandEngine{
		command:  command,
		args:     args,
		audioDir: audioDir,
		voices:   []string{"en", "en-us", "en-uk", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh"},
	}
}

// Name identifies the engine.
func (e *CommandEngine) Name() string { return "command" }

// Voices lists the voices the engine accepts.
func (e *CommandEngine) Voices() []string {
	out := make([]string, len(e.voices))
	copy(out, e.voices)
	return out
}

// Synthesize runs the command and returns the generated file path.
func (e *CommandEngine) Synthesize(ctx context.Context, text string, settings Settings) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	speed := settings.Speed
	if speed <= 0 {
		speed = 1.0
	}
	rate := int(baseWordsPerMinute * speed)
	voice := settings.Voice
	if voice == "" {
		voice = "en"
	}

	filename := fmt.Sprintf("script_audio_%s.wav", time.Now().Format("20060102_150405"))
	output := filepath.Join(e.audioDir, filename)

	args := make([]string, len(e.args))
	for i, arg := range e.args {
		arg = strings.ReplaceAll(arg, placeholderText, text)
		arg = strings.ReplaceAll(arg, placeholderOutput, output)
		arg = strings.ReplaceAll(arg, placeholderVoice, voice)
		arg = strings.ReplaceAll(arg, placeholderRate, strconv.Itoa(rate))
		arg = strings.ReplaceAll(arg, placeholderPitch, strconv.Itoa(settings.Pitch))
		args[i] = arg
	}

	cmd := exec.CommandContext(ctx, e.command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("running %s: %w: %s", e.command, err, strings.TrimSpace(string(out)))
	}

	return output, nil
}
