/*
 * @Description: 统一配置管理 (手动加载 conf.ini，再用环境变量覆盖)
 * @Author: 安知鱼
 * @Date: 2025-06-28 00:21:55
 * @LastEditTime: 2026-09-07 09:48:31
 * @LastEditors: 安知鱼
 */
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"
)

// DefaultConfigPath 默认配置文件位置
const DefaultConfigPath = "data/conf.ini"

// EnvPrefix 环境变量前缀，例如 PREDEL_DATABASE_HOST
const EnvPrefix = "PREDEL"

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerPort, KeyServerDebug, KeyJWTSecret, KeyIDSeed,
	KeyDBType, KeyDBHost, KeyDBPort, KeyDBUser, KeyDBPassword, KeyDBName, KeyDBDebug,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeyLogFile, KeyLogMaxSizeMB, KeyLogMaxBackups, KeyLogMaxAgeDays,
	KeySlugMaxAttempts, KeySearchPageSize, KeySeedFile,
}

const (
	KeyServerPort      = "System.Port"
	KeyServerDebug     = "System.Debug"
	KeyJWTSecret       = "System.JWTSecret"
	KeyIDSeed          = "System.IDSeed"
	KeyDBType          = "Database.Type"
	KeyDBHost          = "Database.Host"
	KeyDBPort          = "Database.Port"
	KeyDBUser          = "Database.User"
	KeyDBPassword      = "Database.Password"
	KeyDBName          = "Database.Name"
	KeyDBDebug         = "Database.Debug"
	KeyRedisAddr       = "Redis.Addr"
	KeyRedisPassword   = "Redis.Password"
	KeyRedisDB         = "Redis.DB"
	KeyLogFile         = "Log.File"
	KeyLogMaxSizeMB    = "Log.MaxSizeMB"
	KeyLogMaxBackups   = "Log.MaxBackups"
	KeyLogMaxAgeDays   = "Log.MaxAgeDays"
	KeySlugMaxAttempts = "Slug.MaxAttempts"
	KeySearchPageSize  = "Search.PageSize"
	KeySeedFile        = "Seed.File"
)

type Config struct {
	vp *viper.Viper
}

// NewConfig 从默认位置加载配置
func NewConfig() (*Config, error) {
	return NewConfigFromFile(DefaultConfigPath)
}

// NewConfigFromFile 手动加载配置，文件不存在时创建默认配置文件
func NewConfigFromFile(filePath string) (*Config, error) {
	vp := viper.New()

	// --- 步骤 1: 使用 go-ini 从文件加载配置 (作为默认值) ---
	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("提示: 未找到 %s，将创建默认配置文件。", filePath)
			if err := createDefaultConfigFile(filePath); err != nil {
				log.Printf("警告: 创建默认配置文件失败: %v，将仅依赖环境变量或内部默认值。", err)
			} else {
				log.Printf("✅ 已创建默认配置文件: %s", filePath)
				iniCfg, err = ini.Load(filePath)
				if err != nil {
					log.Printf("警告: 重新加载配置文件失败: %v", err)
				}
			}
		} else {
			return nil, fmt.Errorf("错误: 解析配置文件 '%s' 失败: %w", filePath, err)
		}
	}

	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				// 特殊处理默认分区 "DEFAULT"
				if section.Name() == ini.DefaultSection {
					viperKey = key.Name()
				}
				vp.Set(viperKey, key.Value())
			}
		}
		log.Printf("从 %s 文件加载了默认配置。", filePath)
	}

	// --- 步骤 2: 手动检查并覆盖环境变量 ---
	applyEnv(vp)

	log.Println("✅ 配置加载器初始化完成。")
	return &Config{vp: vp}, nil
}

// NewConfigFromValues 直接由键值构造配置，环境变量同样生效
func NewConfigFromValues(values map[string]interface{}) *Config {
	vp := viper.New()
	for k, v := range values {
		vp.Set(k, v)
	}
	applyEnv(vp)
	return &Config{vp: vp}
}

func applyEnv(vp *viper.Viper) {
	envReplacer := strings.NewReplacer(".", "_")
	for _, key := range allKeys {
		envVarName := fmt.Sprintf("%s_%s", EnvPrefix, envReplacer.Replace(strings.ToUpper(key)))
		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("发现环境变量: %s, 已覆盖配置 '%s'。", envVarName, key)
		}
	}
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// GetIntDefault 值缺失或不是正整数时返回 def
func (c *Config) GetIntDefault(key string, def int) int {
	if !c.vp.IsSet(key) || strings.TrimSpace(c.vp.GetString(key)) == "" {
		return def
	}
	if v := c.vp.GetInt(key); v > 0 {
		return v
	}
	return def
}

// Set 覆盖单个配置项，主要供命令行参数使用
func (c *Config) Set(key string, value interface{}) {
	c.vp.Set(key, value)
}

// createDefaultConfigFile 创建默认的配置文件
func createDefaultConfigFile(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	// 默认配置内容（使用 SQLite 作为默认数据库）
	defaultConfig := `[System]
Port = 8091
Debug = false
JWTSecret =
IDSeed =

[Database]
Type = sqlite
Name = predelnews.db
Debug = false

# Redis 配置（可选）
# 如果不配置或留空 Addr，系统将自动使用内存缓存
[Redis]
Addr =
Password =
DB = 0

[Log]
File =
MaxSizeMB = 50
MaxBackups = 5
MaxAgeDays = 30

# 唯一 slug 的最大尝试次数，0 表示不限制
[Slug]
MaxAttempts = 0

[Search]
PageSize = 20

# 分类与地区的初始数据，留空使用内置数据
[Seed]
File =
`

	if err := os.WriteFile(filePath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
