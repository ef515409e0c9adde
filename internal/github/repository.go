// Package github 拉取配置中声明的远端仓库元数据与 README，
// 失败时降级为仅含配置信息的记录，结果缓存在项目缓存中。
package github

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/any-hub/folio/internal/apperr"
)

// ConfigFile 是内容根目录下的仓库声明文件。
const ConfigFile = "github/config.yaml"

var repoNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// RepositorySpec 描述一个需要展示的远端仓库，运行期只读。
type RepositorySpec struct {
	Owner       string  `mapstructure:"owner" json:"owner"`
	Repo        string  `mapstructure:"repo" json:"repo"`
	DisplayName string  `mapstructure:"display_name" json:"display_name"`
	Feature     *bool   `mapstructure:"feature" json:"feature,omitempty"`
	Image       *string `mapstructure:"image" json:"image,omitempty"`
}

// Key 返回项目缓存键 owner/repo。
func (s RepositorySpec) Key() string {
	return s.Owner + "/" + s.Repo
}

type repositoryFile struct {
	Repositories []RepositorySpec `mapstructure:"repositories"`
}

// LoadRepositories 读取 <contentRoot>/github/config.yaml。
// 文件缺失返回 NotFound，格式或字段错误返回 Parse，二者都会让项目列表整体失败。
func LoadRepositories(contentRoot string) ([]RepositorySpec, error) {
	path := filepath.Join(contentRoot, filepath.FromSlash(ConfigFile))
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("load repositories", path, err)
		}
		return nil, apperr.IO("load repositories", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, apperr.Parse("load repositories", path, err)
	}

	var file repositoryFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, apperr.Parse("load repositories", path, err)
	}

	specs := make([]RepositorySpec, 0, len(file.Repositories))
	for i, spec := range file.Repositories {
		spec.Owner = strings.TrimSpace(spec.Owner)
		spec.Repo = strings.TrimSpace(spec.Repo)
		if !repoNamePattern.MatchString(spec.Owner) || !repoNamePattern.MatchString(spec.Repo) {
			return nil, apperr.Parse("load repositories", path,
				fmt.Errorf("repositories[%d]: invalid owner/repo %q/%q", i, spec.Owner, spec.Repo))
		}
		if strings.TrimSpace(spec.DisplayName) == "" {
			spec.DisplayName = spec.Repo
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
