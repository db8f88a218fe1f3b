// Package layout 将 ISD 实例排版为区域树：依次遍历 region、body、
// div 与 p，把短语断成行，再做重排、对齐与注音，
// 并统计配置的各项上限。
package layout

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'isdlayout.layout'
func tracer() tracing.Trace {
	return tracing.Select("isdlayout.layout")
}
