// Package report 负责把布局核心产生的警告与错误传递出去。
package report

import (
	"fmt"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
)

// tracer traces with key 'isdlayout.report'
func tracer() tracing.Trace {
	return tracing.Select("isdlayout.report")
}

// Reporter 接收布局过程中的诊断信息。
// LogWarning 返回 true 表示该警告应按错误处理：此时警告不会被记录，
// 由调用方再通过 LogError 上报一次。
type Reporter interface {
	LogError(message string)
	LogWarning(message string) bool
	LogInfo(message string)
}

// Messagef 生成带固定键前缀的消息，例如 "*KEY* text"。
func Messagef(key, format string, args ...any) string {
	return fmt.Sprintf("*%s* %s", key, fmt.Sprintf(format, args...))
}

// --- tracing ---

// Tracer 将诊断信息转发给 tracing 后端。
type Tracer struct {
	WarningsAsErrors bool
}

var _ Reporter = (*Tracer)(nil)

func (r *Tracer) LogError(message string) { tracer().Errorf("%s", message) }

func (r *Tracer) LogWarning(message string) bool {
	if r.WarningsAsErrors {
		return true
	}
	tracer().Infof("warning: %s", message)
	return false
}

func (r *Tracer) LogInfo(message string) { tracer().Infof("%s", message) }

// --- console ---

// Console 在终端输出诊断信息并计数。
type Console struct {
	WarningsAsErrors bool
	Quiet            bool

	mu       sync.Mutex
	errors   int
	warnings int
}

var _ Reporter = (*Console)(nil)

func (c *Console) LogError(message string) {
	c.mu.Lock()
	c.errors++
	c.mu.Unlock()
	pterm.Error.Println(message)
}

func (c *Console) LogWarning(message string) bool {
	if c.WarningsAsErrors {
		return true
	}
	c.mu.Lock()
	c.warnings++
	c.mu.Unlock()
	pterm.Warning.Println(message)
	return false
}

func (c *Console) LogInfo(message string) {
	if !c.Quiet {
		pterm.Info.Println(message)
	}
}

// Counts 返回目前为止的错误数与警告数。
func (c *Console) Counts() (errors, warnings int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors, c.warnings
}

// --- recording ---

// Recorder 将诊断信息保存在内存中，主要用于测试。
type Recorder struct {
	WarningsAsErrors bool

	Errors   []string
	Warnings []string
	Infos    []string
}

var _ Reporter = (*Recorder)(nil)

func (r *Recorder) LogError(message string) { r.Errors = append(r.Errors, message) }

func (r *Recorder) LogWarning(message string) bool {
	if r.WarningsAsErrors {
		return true
	}
	r.Warnings = append(r.Warnings, message)
	return false
}

func (r *Recorder) LogInfo(message string) { r.Infos = append(r.Infos, message) }
