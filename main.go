package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/npillmayer/schuko/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"github.com/ByLCY/isdlayout/area"
	"github.com/ByLCY/isdlayout/isd"
	"github.com/ByLCY/isdlayout/layout"
	"github.com/ByLCY/isdlayout/param"
	"github.com/ByLCY/isdlayout/renderer"
	canvasrenderer "github.com/ByLCY/isdlayout/renderer/canvas"
	"github.com/ByLCY/isdlayout/report"
)

// tracer traces with key 'isdlayout.cli'
func tracer() tracing.Trace {
	return tracing.Select("isdlayout.cli")
}

var traceKeys = []string{"isdlayout.cli", "isdlayout.layout", "isdlayout.text", "isdlayout.fonts",
	"isdlayout.report", "isdlayout.renderer", "isdlayout.style"}

// config 汇总命令行参数。
type config struct {
	input, output, debug string
	params               string
	processor            string
	lineBreaker          string
	charBreaker          string
	limits               layout.Limits
	warningsAsErrors     bool
}

func main() {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{"tracing.adapter": "go"}
	for _, key := range traceKeys {
		conf["trace."+key] = "Error"
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	var cfg config
	flag.StringVar(&cfg.input, "in", "examples/demo.isd", "ISD 文件路径")
	flag.StringVar(&cfg.output, "out", "output/demo.pdf", "PDF 输出路径")
	flag.StringVar(&cfg.debug, "debug", "", "area 树调试 JSON 输出路径")
	flag.StringVar(&cfg.params, "params", "", "外部参数 JSON，例如 {\"externalExtent\":[1920,1080]}")
	flag.StringVar(&cfg.processor, "processor", layout.DefaultProcessor, "布局处理器")
	flag.StringVar(&cfg.lineBreaker, "line-breaker", layout.DefaultLineBreaker, "断行器 [uax14]")
	flag.StringVar(&cfg.charBreaker, "char-breaker", layout.DefaultCharacterBreaker, "字符断行器 [grapheme|scalar]")
	cfg.limits = layout.NoLimits()
	flag.Int64Var(&cfg.limits.MaxRegions, "max-regions", layout.NoLimit, "每个 canvas 的区域上限")
	flag.Int64Var(&cfg.limits.MaxLines, "max-lines", layout.NoLimit, "每个 canvas 的行数上限")
	flag.Int64Var(&cfg.limits.MaxLinesPerRegion, "max-lines-per-region", layout.NoLimit, "每个区域的行数上限")
	flag.Int64Var(&cfg.limits.MaxChars, "max-chars", layout.NoLimit, "每个 canvas 的字符上限")
	flag.Int64Var(&cfg.limits.MaxCharsPerRegion, "max-chars-per-region", layout.NoLimit, "每个区域的字符上限")
	flag.Int64Var(&cfg.limits.MaxCharsPerLine, "max-chars-per-line", layout.NoLimit, "每行的字符上限")
	flag.BoolVar(&cfg.warningsAsErrors, "warnings-as-errors", false, "将警告视为错误")
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	flag.Parse()

	level := tracing.LevelError
	switch *tlevel {
	case "Debug":
		level = tracing.LevelDebug
	case "Info":
		level = tracing.LevelInfo
	case "Error":
	default:
		pterm.Warning.Printfln("未知的 trace 级别 %s，使用 Error", *tlevel)
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}

	console := &report.Console{WarningsAsErrors: cfg.warningsAsErrors}
	r := canvasrenderer.NewRenderer(filepath.Dir(cfg.input))
	if err := run(cfg, r, console); err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	if errs, warns := console.Counts(); errs > 0 {
		log.Fatalf("布局出现 %d 个错误，%d 个警告", errs, warns)
	} else if warns > 0 {
		pterm.Warning.Printfln("布局出现 %d 个警告", warns)
	}
	pterm.Success.Printfln("已生成 PDF：%s", cfg.output)
}

// run 串联解析、布局与渲染。渲染器同时作为布局的字体缓存，保证测量与绘制一致。
func run(cfg config, r *canvasrenderer.Renderer, reporter report.Reporter) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(cfg.input)
	if err != nil {
		return fmt.Errorf("无法打开 ISD 文件 %s: %w", cfg.input, err)
	}
	defer file.Close()

	doc, err := isd.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 ISD 失败: %w", err)
	}

	opts := layout.Options{
		Fonts:            r,
		LineBreaker:      cfg.lineBreaker,
		CharacterBreaker: cfg.charBreaker,
		Reporter:         reporter,
		Limits:           cfg.limits,
	}
	if cfg.params != "" {
		if opts.Params, err = param.FromJSON([]byte(cfg.params)); err != nil {
			return err
		}
	}
	processor, err := layout.New(cfg.processor, opts)
	if err != nil {
		return fmt.Errorf("创建布局处理器失败: %w", err)
	}
	trees, err := processor.Layout(doc)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	tracer().Infof("%s: %d canvases", cfg.input, len(trees))

	if cfg.debug != "" {
		if err := writeDebug(trees, cfg.debug); err != nil {
			return err
		}
	}
	return render(trees, cfg.output, r)
}

func render(trees []*area.Tree, outputPath string, r renderer.Renderer) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := r.Render(trees)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}

func writeDebug(trees []*area.Tree, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := area.WriteDebugJSON(trees, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
