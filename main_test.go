package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/ByLCY/isdlayout/layout"
	canvasrenderer "github.com/ByLCY/isdlayout/renderer/canvas"
	"github.com/ByLCY/isdlayout/report"
)

func TestRunDemo(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isdlayout.cli")
	defer teardown()

	dir := t.TempDir()
	cfg := config{
		input:     filepath.Join("examples", "demo.isd"),
		output:    filepath.Join(dir, "out", "demo.pdf"),
		debug:     filepath.Join(dir, "debug", "areas.json"),
		params:    `{"externalExtent": [1280, 720]}`,
		processor: layout.DefaultProcessor,
		limits:    layout.NoLimits(),
	}
	rec := &report.Recorder{}
	if err := run(cfg, canvasrenderer.NewRenderer("examples"), rec); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	data, err := os.ReadFile(cfg.output)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected a PDF at %s: %v", cfg.output, err)
	}
	debug, err := os.ReadFile(cfg.debug)
	if err != nil || !bytes.Contains(debug, []byte(`"region": "r1"`)) {
		t.Fatalf("expected debug JSON with region r1: %v", err)
	}
	if len(rec.Errors) != 0 {
		t.Fatalf("unexpected errors %v", rec.Errors)
	}
}

func TestRunErrors(t *testing.T) {
	r := canvasrenderer.NewRenderer("")
	if err := run(config{input: "missing.isd"}, r, &report.Recorder{}); err == nil {
		t.Fatalf("expected error for missing input")
	}
	cfg := config{input: filepath.Join("examples", "demo.isd"), params: "{", limits: layout.NoLimits()}
	if err := run(cfg, r, &report.Recorder{}); err == nil {
		t.Fatalf("expected error for invalid params")
	}
	cfg.params, cfg.processor = "", "nope"
	if err := run(cfg, r, &report.Recorder{}); err == nil {
		t.Fatalf("expected error for unknown processor")
	}
}
