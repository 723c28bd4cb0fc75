package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"speakerscript/internal/diarization"
	"speakerscript/internal/pipeline"
	"speakerscript/internal/testsupport"
	"speakerscript/internal/transcription"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	workDir    string
	stateDir   string
	options    []pipeline.Option
}

func setupCLITestEnv(t *testing.T, token string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	for _, key := range []string{"HUGGINGFACE_TOKEN", "HF_TOKEN", "HUGGING_FACE_HUB_TOKEN", "SPEAKERSCRIPT_LANGUAGE"} {
		t.Setenv(key, "")
	}
	t.Chdir(base)

	env := &cliTestEnv{
		baseDir:  base,
		workDir:  filepath.Join(base, "work"),
		stateDir: filepath.Join(base, "state"),
	}
	env.configPath = testsupport.WriteFile(t, filepath.Join(base, "config.toml"), fmt.Sprintf(`[paths]
work_dir = %q
state_dir = %q

[diarization]
hf_token = %q

[logging]
level = "error"
`, env.workDir, env.stateDir, token))
	return env
}

// withFakeStages makes the run command use in-process stages instead of
// ffmpeg and uvx.
func (e *cliTestEnv) withFakeStages() {
	convert := func(_ context.Context, _ string, dest string) error {
		return os.WriteFile(dest, []byte("RIFF"), 0o644)
	}
	e.options = append(e.options,
		pipeline.WithConverter(convert),
		pipeline.WithProber(nil),
		pipeline.WithDiarizer(fixtureDiarizer{}),
		pipeline.WithTranscriber(fixtureTranscriber{}),
	)
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var configFlag, levelFlag, formatFlag string
	ctx := newCommandContext(&configFlag, &levelFlag, &formatFlag)
	ctx.pipelineOptions = e.options
	root := newRootCommandWithContext(ctx)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func (e *cliTestEnv) writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	diar := testsupport.WriteFile(t, filepath.Join(e.baseDir, "fixtures", "diarization.json"), testsupport.SampleDiarization)
	trans := testsupport.WriteFile(t, filepath.Join(e.baseDir, "fixtures", "transcription.json"), testsupport.SampleTranscription)
	return diar, trans
}

type fixtureDiarizer struct{}

func (fixtureDiarizer) Diarize(_ context.Context, _ string, _ int, outputPath string) ([]diarization.Segment, error) {
	if err := os.WriteFile(outputPath, []byte(testsupport.SampleDiarization), 0o644); err != nil {
		return nil, err
	}
	return diarization.Load(outputPath)
}

type fixtureTranscriber struct{}

func (fixtureTranscriber) Transcribe(context.Context, string, string, string) (transcription.Result, error) {
	segments, err := transcription.Parse([]byte(testsupport.SampleTranscription))
	return transcription.Result{Segments: segments}, err
}
