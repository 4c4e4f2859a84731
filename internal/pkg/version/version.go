/*
 * @Description: 构建版本信息
 * @Author: 安知鱼
 * @Date: 2025-09-26 09:40:18
 * @LastEditTime: 2026-09-29 14:20:05
 * @LastEditors: 安知鱼
 */
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// 这些变量将在构建时通过 ldflags 注入
var (
	Version   = "dev"             // 版本号，如 v1.0.0
	Commit    = "unknown"         // Git commit hash
	Date      = "unknown"         // 构建时间
	GoVersion = runtime.Version() // Go 版本
)

// GetVersion 返回应用版本号
func GetVersion() string {
	// 如果通过 ldflags 注入了版本信息，则使用注入的版本
	if Version != "dev" && Version != "" {
		return Version
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown (no build info)"
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	return "dev"
}

// vcsSetting 从构建信息中读取版本控制字段
func vcsSetting(key string) (string, bool) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key == key {
			return setting.Value, true
		}
	}
	return "", false
}

// GetBuildInfo 返回详细的构建信息
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   GetVersion(),
		Commit:    GetCommit(),
		Date:      GetBuildDate(),
		GoVersion: GoVersion,
	}
}

// GetCommit 返回 Git commit hash
func GetCommit() string {
	if Commit != "unknown" && Commit != "" {
		return Commit
	}
	value, ok := vcsSetting("vcs.revision")
	if !ok {
		return "unknown"
	}
	if len(value) > 7 {
		return value[:7]
	}
	return value
}

// GetBuildDate 返回构建时间
func GetBuildDate() string {
	if Date != "unknown" && Date != "" {
		return Date
	}
	value, ok := vcsSetting("vcs.time")
	if !ok {
		return "unknown"
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Format("2006-01-02 15:04:05")
	}
	return value
}

// GetVersionString 返回完整的版本字符串
func GetVersionString() string {
	version := GetVersion()
	commit := GetCommit()
	date := GetBuildDate()

	var parts []string
	parts = append(parts, version)

	if commit != "unknown" {
		parts = append(parts, fmt.Sprintf("commit %s", commit))
	}

	if date != "unknown" {
		parts = append(parts, fmt.Sprintf("built at %s", date))
	}

	return strings.Join(parts, ", ")
}

// BuildInfo 包含构建信息
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}
