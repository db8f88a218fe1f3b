package isd

import "encoding/xml"

// 支持的 ISD 词汇所使用的命名空间。
const (
	NamespaceISD = "http://www.w3.org/ns/ttml#isd"
	NamespaceTT  = "http://www.w3.org/ns/ttml"
	NamespaceTTS = "http://www.w3.org/ns/ttml#styling"
	NamespaceTTP = "http://www.w3.org/ns/ttml#parameter"
	NamespaceXML = "http://www.w3.org/XML/1998/namespace"
)

var (
	Sequence         = xml.Name{Space: NamespaceISD, Local: "sequence"}
	Instance         = xml.Name{Space: NamespaceISD, Local: "isd"}
	Region           = xml.Name{Space: NamespaceISD, Local: "region"}
	ComputedStyleSet = xml.Name{Space: NamespaceISD, Local: "css"}
	Body             = xml.Name{Space: NamespaceTT, Local: "body"}
	Division         = xml.Name{Space: NamespaceTT, Local: "div"}
	Paragraph        = xml.Name{Space: NamespaceTT, Local: "p"}
	Span             = xml.Name{Space: NamespaceTT, Local: "span"}
	Break            = xml.Name{Space: NamespaceTT, Local: "br"}
)

// 属性名。
var (
	AttrBegin          = xml.Name{Local: "begin"}
	AttrEnd            = xml.Name{Local: "end"}
	AttrCSS            = xml.Name{Space: NamespaceISD, Local: "css"}
	AttrID             = xml.Name{Space: NamespaceXML, Local: "id"}
	AttrLang           = xml.Name{Space: NamespaceXML, Local: "lang"}
	AttrSpace          = xml.Name{Space: NamespaceXML, Local: "space"}
	AttrCellResolution = xml.Name{Space: NamespaceTTP, Local: "cellResolution"}
)
