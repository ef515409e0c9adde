package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields 提供请求 ID、方法、路径与状态码字段，供 HTTP 访问日志复用。
func RequestFields(requestID, method, path string, status int) logrus.Fields {
	return logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       path,
		"status":     status,
	}
}

// CacheFields 记录缓存名称、键与命中状态，文档与项目缓存共用。
func CacheFields(cacheName, key string, hit bool) logrus.Fields {
	return logrus.Fields{
		"cache":     cacheName,
		"cache_key": key,
		"cache_hit": hit,
	}
}
