package layout

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultProcessor 是未指定名称时使用的处理器。
const DefaultProcessor = "basic"

// Factory 根据选项创建处理器。
type Factory func(Options) (Processor, error)

var (
	processorsMu sync.RWMutex
	processors   = map[string]Factory{
		DefaultProcessor: func(opts Options) (Processor, error) { return NewBasicProcessor(opts) },
	}
)

// Register 按名称注册处理器。
func Register(name string, factory Factory) {
	processorsMu.Lock()
	defer processorsMu.Unlock()
	processors[name] = factory
}

// Names 列出已注册的处理器。
func Names() []string {
	processorsMu.RLock()
	defer processorsMu.RUnlock()
	names := make([]string, 0, len(processors))
	for name := range processors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New 创建指定名称的处理器；"" 表示默认处理器。
func New(name string, opts Options) (Processor, error) {
	if name == "" {
		name = DefaultProcessor
	}
	processorsMu.RLock()
	factory, ok := processors[name]
	processorsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("未知的布局处理器 %q", name)
	}
	return factory(opts)
}
