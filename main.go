/*
 * @Description: 命令行入口：serve、slug、token、version
 * @Author: 安知鱼
 * @Date: 2025-06-28 00:21:55
 * @LastEditTime: 2026-09-27 14:05:33
 * @LastEditors: 安知鱼
 */
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/predelnews/predelnews-app/cmd/server"
	"github.com/predelnews/predelnews-app/internal/pkg/auth"
	"github.com/predelnews/predelnews-app/internal/pkg/version"
	"github.com/predelnews/predelnews-app/pkg/config"
	"github.com/predelnews/predelnews-app/pkg/service/slug"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "predelnews",
	Short: "Predel News 新闻站点后端",
	Long: `predelnews 提供新闻站点的 HTTP API：文章与分类法浏览、站内搜索与联想词、
相关文章推荐以及后台文章管理。不带子命令运行时等同于 serve。`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE:  runServe,
}

var slugCmd = &cobra.Command{
	Use:   "slug <text...>",
	Short: "打印文本对应的 slug",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value := slug.Generate(strings.Join(args, " "))
		if value == "" {
			return fmt.Errorf("无法从输入生成 slug")
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "使用 System.JWTSecret 签发访问令牌",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		groups, _ := cmd.Flags().GetStringSlice("group")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		cfg, err := config.NewConfigFromFile(configPath)
		if err != nil {
			return err
		}
		secret := strings.TrimSpace(cfg.GetString(config.KeyJWTSecret))
		if secret == "" {
			return fmt.Errorf("未配置 System.JWTSecret，无法签发令牌")
		}

		token, err := auth.GenerateToken(user, groups, []byte(secret), ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "打印版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.GetBuildInfo()
		fmt.Fprintf(cmd.OutOrStdout(), "predelnews %s\n", version.GetVersionString())
		fmt.Fprintf(cmd.OutOrStdout(), "go %s\n", info.GoVersion)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "配置文件路径")

	tokenCmd.Flags().String("user", "", "令牌中的用户名")
	tokenCmd.Flags().StringSlice("group", []string{auth.AdminGroup}, "用户组，可重复指定")
	tokenCmd.Flags().Duration("ttl", auth.DefaultTokenTTL, "令牌有效期")
	_ = tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(serveCmd, slugCmd, tokenCmd, versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewConfigFromFile(configPath)
	if err != nil {
		return err
	}

	// 调用位于 cmd/server 包中的 NewApp 函数来构建整个应用
	app, cleanup, err := server.NewApp(cfg)
	if cleanup != nil {
		// 使用 defer 来确保 cleanup 函数在退出时被调用
		defer cleanup()
	}
	if err != nil {
		return fmt.Errorf("应用初始化失败: %w", err)
	}
	// 确保后台任务在程序退出时被停止
	defer app.Stop()

	app.PrintBanner()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("应用运行失败: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}
