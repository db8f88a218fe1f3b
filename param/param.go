// Package param 保存传给布局处理器的外部参数，
// 例如渲染表面的外部尺寸。
package param

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/isdlayout/style"
)

// 常用参数键。
const (
	ExternalExtent = "externalExtent"
)

// Store 是以读为主的键值存储。键可以是带数组下标的点分路径，
// 例如 "display.extent[0]"。
type Store struct {
	data map[string]any
}

// New 基于 values 的副本创建存储。
func New(values map[string]any) *Store {
	data := make(map[string]any, len(values))
	for k, v := range values {
		data[k] = v
	}
	return &Store{data: data}
}

// FromJSON 从 JSON 对象创建存储。
func FromJSON(raw []byte) (*Store, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析参数 JSON 失败: %w", err)
	}
	return &Store{data: data}, nil
}

// Set 在顶层键下保存一个值。
func (s *Store) Set(key string, value any) {
	if s.data == nil {
		s.data = map[string]any{}
	}
	s.data[key] = value
}

// Lookup 解析路径。
func (s *Store) Lookup(path string) (any, bool) {
	if s == nil || s.data == nil {
		return nil, false
	}
	return resolvePath(s.data, strings.TrimSpace(path))
}

// String returns a value formatted as text.
func (s *Store) String(path string) (string, bool) {
	v, ok := s.Lookup(path)
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}

// Float 返回数值；也接受数字字符串。
func (s *Store) Float(path string) (float64, bool) {
	v, ok := s.Lookup(path)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// Extent 返回宽高对，可以是两个数字组成的数组，
// 也可以是 "<w>px <h>px" 形式的字符串。
func (s *Store) Extent(path string) (style.Extent, bool) {
	v, ok := s.Lookup(path)
	if !ok {
		return style.Extent{}, false
	}
	switch c := v.(type) {
	case style.Extent:
		return c, !c.IsEmpty()
	case []float64:
		if len(c) == 2 {
			e := style.Extent{W: c[0], H: c[1]}
			return e, !e.IsEmpty()
		}
	case []any:
		if len(c) == 2 {
			w, ok1 := toFloat(c[0])
			h, ok2 := toFloat(c[1])
			e := style.Extent{W: w, H: h}
			return e, ok1 && ok2 && !e.IsEmpty()
		}
	case string:
		lengths, err := style.ParseLengths(c)
		if err != nil || len(lengths) != 2 {
			return style.Extent{}, false
		}
		for _, l := range lengths {
			if l.Unit != style.UnitPixel {
				return style.Extent{}, false
			}
		}
		e := style.Extent{W: lengths[0].Value, H: lengths[1].Value}
		return e, !e.IsEmpty()
	}
	return style.Extent{}, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func resolvePath(data any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendMap(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendArray(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name := segment
	var indexes []string
	if i := strings.Index(segment, "["); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for len(rest) > 0 && rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	if c, ok := current.(map[string]any); ok {
		val, ok := c[key]
		return val, ok
	}
	return nil, false
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	case []float64:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	}
	return nil, false
}
