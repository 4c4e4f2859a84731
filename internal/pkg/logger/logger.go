/*
 * @Description: 日志输出配置（标准输出 + 可选的滚动日志文件）
 * @Author: 安知鱼
 * @Date: 2026-09-24 15:40:12
 * @LastEditTime: 2026-09-24 16:02:38
 * @LastEditors: 安知鱼
 */
package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 日志文件配置，File 为空时只输出到标准输出
type Options struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

const (
	defaultMaxSizeMB  = 50
	defaultMaxBackups = 5
	defaultMaxAgeDays = 30
)

// Logger 持有当前的日志输出目标
type Logger struct {
	writer io.Writer
	closer io.Closer
}

// Setup 根据配置设置标准库 log 的输出，返回的 Logger 用于创建 slog 日志器并在退出时关闭文件
func Setup(opts Options) (*Logger, error) {
	l := &Logger{writer: os.Stdout}

	if path := strings.TrimSpace(opts.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		rotator := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    positiveOr(opts.MaxSizeMB, defaultMaxSizeMB),
			MaxBackups: positiveOr(opts.MaxBackups, defaultMaxBackups),
			MaxAge:     positiveOr(opts.MaxAgeDays, defaultMaxAgeDays),
			Compress:   true,
		}
		l.writer = io.MultiWriter(os.Stdout, rotator)
		l.closer = rotator
	}

	log.SetOutput(l.writer)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return l, nil
}

// Writer 返回日志输出目标
func (l *Logger) Writer() io.Writer {
	if l == nil || l.writer == nil {
		return os.Stdout
	}
	return l.writer
}

// Slog 创建一个写入同一目标的 slog 文本日志器，并附带 system 属性
func (l *Logger) Slog(system string) *slog.Logger {
	handler := slog.NewTextHandler(l.Writer(), &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler).With("system", system)
}

// Close 关闭日志文件
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func positiveOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
