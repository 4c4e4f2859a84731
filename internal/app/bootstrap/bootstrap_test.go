package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/predelnews/predelnews-app/internal/infra/persistence/memory"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	data, err := DefaultSeed()
	require.NoError(t, err)

	names := make([]string, 0, len(data.Categories))
	for _, c := range data.Categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Общество", "Политика", "Криминално", "Икономика / Бизнес", "Спорт", "Култура", "Любопитно", "Хайлайф"}, names)

	regions := make([]string, 0, len(data.Regions))
	for _, r := range data.Regions {
		regions = append(regions, r.Name)
	}
	assert.Equal(t, []string{"Благоевград", "Кюстендил", "Перник", "София", "България"}, regions)
}

func TestSeedTaxonomy(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	b := NewBootstrapper(repos, nil)

	data, err := DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, b.SeedTaxonomy(ctx, data))

	categories, err := repos.Category.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 8)
	assert.Equal(t, "obshtestvo", categories[0].Slug)
	assert.Equal(t, 1, categories[0].SortOrder)
	assert.True(t, categories[0].IsMainNavigation)

	business, err := repos.Category.FindBySlug(ctx, "ikonomika-biznes")
	require.NoError(t, err)
	assert.Equal(t, "Икономика / Бизнес", business.Name)

	regions, err := repos.Region.List(ctx)
	require.NoError(t, err)
	require.Len(t, regions, 5)
	_, err = repos.Region.FindBySlug(ctx, "blagoevgrad")
	assert.NoError(t, err)

	t.Run("再次执行不会重复写入", func(t *testing.T) {
		require.NoError(t, b.SeedTaxonomy(ctx, data))
		categories, err := repos.Category.List(ctx)
		require.NoError(t, err)
		assert.Len(t, categories, 8)
	})
}

func TestSeedTaxonomyKeepsExistingTable(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	require.NoError(t, repos.Category.Create(ctx, &model.Category{Name: "Спорт", Slug: "sport"}))

	data, err := DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, NewBootstrapper(repos, nil).SeedTaxonomy(ctx, data))

	categories, err := repos.Category.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	regions, err := repos.Region.List(ctx)
	require.NoError(t, err)
	assert.Len(t, regions, 5)
}

func TestSeedTaxonomyDuplicateNames(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	data := &SeedData{Regions: []SeedRegion{{Name: "София"}, {Name: "софия"}}}

	require.NoError(t, NewBootstrapper(repos, nil).SeedTaxonomy(ctx, data))

	_, err := repos.Region.FindBySlug(ctx, "sofiya")
	assert.NoError(t, err)
	_, err = repos.Region.FindBySlug(ctx, "sofiya-2")
	assert.NoError(t, err)
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	tests := []struct {
		name       string
		path       string
		wantErr    bool
		categories int
		regions    int
	}{
		{name: "空路径使用内置数据", path: "", categories: 8, regions: 5},
		{name: "自定义文件", path: write("custom.yaml", "categories:\n  - name: Спорт\nregions:\n  - name: Перник\n  - name: София\n"), categories: 1, regions: 2},
		{name: "文件不存在", path: filepath.Join(dir, "missing.yaml"), wantErr: true},
		{name: "YAML 格式错误", path: write("broken.yaml", "categories: [\n"), wantErr: true},
		{name: "缺少名称", path: write("noname.yaml", "regions:\n  - name: \"\"\n"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := LoadSeed(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, data.Categories, tt.categories)
			assert.Len(t, data.Regions, tt.regions)
		})
	}
}

func TestSeedTaxonomyNilData(t *testing.T) {
	err := NewBootstrapper(memory.NewRepositories(), nil).SeedTaxonomy(context.Background(), nil)
	assert.Error(t, err)
}
