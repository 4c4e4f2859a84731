/*
 * @Description: 启动引导：分类法初始数据
 * @Author: 安知鱼
 * @Date: 2026-09-26 10:04:37
 * @LastEditTime: 2026-09-26 15:21:09
 * @LastEditors: 安知鱼
 */
package bootstrap

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
	"github.com/predelnews/predelnews-app/pkg/service/slug"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// SeedCategory 是种子文件中的一个分类
type SeedCategory struct {
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	MainNavigation bool   `yaml:"main_navigation"`
}

// SeedRegion 是种子文件中的一个地区
type SeedRegion struct {
	Name string `yaml:"name"`
}

// SeedData 是分类法初始数据
type SeedData struct {
	Categories []SeedCategory `yaml:"categories"`
	Regions    []SeedRegion   `yaml:"regions"`
}

// DefaultSeed 解析内置的种子数据
func DefaultSeed() (*SeedData, error) {
	return parseSeed(defaultSeed)
}

// LoadSeed 读取种子文件，path 为空时使用内置数据
func LoadSeed(path string) (*SeedData, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultSeed()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取种子文件 '%s' 失败: %w", path, err)
	}
	data, err := parseSeed(raw)
	if err != nil {
		return nil, fmt.Errorf("种子文件 '%s' 无效: %w", path, err)
	}
	return data, nil
}

func parseSeed(raw []byte) (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析 YAML 失败: %w", err)
	}
	for i, c := range data.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("第 %d 个分类缺少 name", i+1)
		}
	}
	for i, r := range data.Regions {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("第 %d 个地区缺少 name", i+1)
		}
	}
	return &data, nil
}

type Bootstrapper struct {
	repos   repository.Repositories
	slugGen *slug.Generator
}

func NewBootstrapper(repos repository.Repositories, slugGen *slug.Generator) *Bootstrapper {
	if slugGen == nil {
		slugGen = slug.NewGenerator()
	}
	return &Bootstrapper{
		repos:   repos,
		slugGen: slugGen,
	}
}

// SeedTaxonomy 在分类表或地区表为空时写入初始数据，已有数据的表保持不变
func (b *Bootstrapper) SeedTaxonomy(ctx context.Context, data *SeedData) error {
	log.Println("--- 开始初始化分类法数据 ---")
	if data == nil {
		return fmt.Errorf("种子数据为空")
	}
	if err := b.seedCategories(ctx, data.Categories); err != nil {
		return err
	}
	if err := b.seedRegions(ctx, data.Regions); err != nil {
		return err
	}
	log.Println("--- 分类法数据初始化完成 ---")
	return nil
}

func (b *Bootstrapper) seedCategories(ctx context.Context, items []SeedCategory) error {
	existing, err := b.repos.Category.List(ctx)
	if err != nil {
		return fmt.Errorf("查询分类失败: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("分类表已有 %d 条数据，跳过初始化", len(existing))
		return nil
	}

	for i, item := range items {
		slugValue, err := b.uniqueSlug(ctx, item.Name, b.repos.Category.ExistsBySlug)
		if err != nil {
			return err
		}
		category := &model.Category{
			Name:             strings.TrimSpace(item.Name),
			Slug:             slugValue,
			Description:      item.Description,
			SortOrder:        i + 1,
			IsMainNavigation: item.MainNavigation,
		}
		if err := b.repos.Category.Create(ctx, category); err != nil {
			return fmt.Errorf("创建分类 '%s' 失败: %w", category.Name, err)
		}
	}
	log.Printf("✅ 成功: 已创建 %d 个默认分类", len(items))
	return nil
}

func (b *Bootstrapper) seedRegions(ctx context.Context, items []SeedRegion) error {
	existing, err := b.repos.Region.List(ctx)
	if err != nil {
		return fmt.Errorf("查询地区失败: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("地区表已有 %d 条数据，跳过初始化", len(existing))
		return nil
	}

	for _, item := range items {
		slugValue, err := b.uniqueSlug(ctx, item.Name, b.repos.Region.ExistsBySlug)
		if err != nil {
			return err
		}
		region := &model.Region{Name: strings.TrimSpace(item.Name), Slug: slugValue}
		if err := b.repos.Region.Create(ctx, region); err != nil {
			return fmt.Errorf("创建地区 '%s' 失败: %w", region.Name, err)
		}
	}
	log.Printf("✅ 成功: 已创建 %d 个默认地区", len(items))
	return nil
}

func (b *Bootstrapper) uniqueSlug(ctx context.Context, name string, exists func(ctx context.Context, slug string, excludeID uint) (bool, error)) (string, error) {
	value, err := b.slugGen.GenerateUnique(ctx, name, func(ctx context.Context, candidate string) (bool, error) {
		return exists(ctx, candidate, 0)
	})
	if err != nil {
		return "", fmt.Errorf("为 '%s' 生成 slug 失败: %w", name, err)
	}
	if value == "" {
		return "", fmt.Errorf("无法为 '%s' 生成 slug", name)
	}
	return value, nil
}
