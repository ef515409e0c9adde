package github

import "github.com/any-hub/folio/internal/readme"

const degradedDescription = "GitHub repository"

// Project 是对外返回的仓库信息；Feature 与 Image 每次读取都从当前配置覆盖。
type Project struct {
	Owner       string  `json:"owner"`
	Repo        string  `json:"repo"`
	DisplayName string  `json:"display_name"`
	ReadmeHTML  string  `json:"readme_html"`
	URL         string  `json:"url"`
	Stars       int     `json:"stars"`
	Forks       int     `json:"forks"`
	Description *string `json:"description"`
	Feature     *bool   `json:"feature"`
	Image       *string `json:"image"`
}

// Clone 深拷贝指针字段，缓存读出时使用。
func (p Project) Clone() Project {
	out := p
	out.Description = cloneString(p.Description)
	out.Image = cloneString(p.Image)
	if p.Feature != nil {
		feature := *p.Feature
		out.Feature = &feature
	}
	return out
}

// CloneProject 适配 cache.WithClone。
func CloneProject(p Project) Project {
	return p.Clone()
}

// withSpec 用当前配置覆盖展示相关字段。
func (p Project) withSpec(spec RepositorySpec) Project {
	out := p.Clone()
	out.DisplayName = spec.DisplayName
	out.Feature = nil
	if spec.Feature != nil {
		feature := *spec.Feature
		out.Feature = &feature
	}
	out.Image = cloneString(spec.Image)
	return out
}

// degradedProject 在仓库元数据不可用时返回只含配置信息的记录。
func degradedProject(spec RepositorySpec) Project {
	description := degradedDescription
	return Project{
		Owner:       spec.Owner,
		Repo:        spec.Repo,
		ReadmeHTML:  readme.Unavailable,
		URL:         repositoryURL(spec),
		Description: &description,
	}.withSpec(spec)
}

func repositoryURL(spec RepositorySpec) string {
	return "https://github.com/" + spec.Owner + "/" + spec.Repo
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
