// Package content renders front-matter markdown documents into HTML and serves
// them per category through a short-lived document cache.
package content

// Metadata 是 front matter 中声明的结构化字段。
type Metadata struct {
	Title       string   `yaml:"title" json:"title"`
	Date        string   `yaml:"date" json:"date"`
	Tags        []string `yaml:"tags" json:"tags"`
	Description string   `yaml:"description" json:"description"`
	Image       *string  `yaml:"image,omitempty" json:"image,omitempty"`
	Feature     *bool    `yaml:"feature,omitempty" json:"feature,omitempty"`
}

// Document 由 (Category, Slug) 唯一标识，构造后不可变；缓存过期时整体被新解析结果替换。
type Document struct {
	Slug     string   `json:"slug"`
	Category string   `json:"category"`
	Metadata Metadata `json:"metadata"`
	HTML     string   `json:"html_content"`
}

// Key 返回文档缓存键 category/slug。
func (d Document) Key() string {
	return Key(d.Category, d.Slug)
}

// Key 拼接文档缓存键。
func Key(category, slug string) string {
	return category + "/" + slug
}

// Clone 深拷贝切片与指针字段，缓存读出时使用。
func (d Document) Clone() Document {
	out := d
	if d.Metadata.Tags != nil {
		out.Metadata.Tags = append([]string(nil), d.Metadata.Tags...)
	}
	if d.Metadata.Image != nil {
		image := *d.Metadata.Image
		out.Metadata.Image = &image
	}
	if d.Metadata.Feature != nil {
		feature := *d.Metadata.Feature
		out.Metadata.Feature = &feature
	}
	return out
}

// CloneDocument 适配 cache.WithClone。
func CloneDocument(d Document) Document {
	return d.Clone()
}
