package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// ShortenFields 描述一次短链接操作，供 CLI 与 HTTP 入口复用。
func ShortenFields(action, rawURL, requestID string) logrus.Fields {
	fields := logrus.Fields{
		"action": action,
		"url":    rawURL,
	}
	if requestID != "" {
		fields["request_id"] = requestID
	}
	return fields
}

// WithComponent 为子系统日志附加 component 字段，装饰器日志据此区分来源。
func WithComponent(logger logrus.FieldLogger, component string) logrus.FieldLogger {
	return logger.WithField("component", component)
}
