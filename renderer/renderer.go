package renderer

import "github.com/ByLCY/isdlayout/area"

// Renderer 将布局结果输出为最终文件，例如 PDF。
// 每个 canvas 树对应一页；Render 返回生成的二进制数据。
type Renderer interface {
	Render(trees []*area.Tree) ([]byte, error)
}
