// cleaner.go
package processor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"CountryEconomics/src/config"
	"CountryEconomics/src/storage"
	"CountryEconomics/src/utils"
)

// 衍生字段依赖的列
const (
	ColGDP          = "gdp"
	ColPopulation   = "population"
	ColGDPPerCapita = "gdp_per_capita"
	ColSubregion    = "subregion"
	ColRegionShow   = "region_display"
)

// Cleaner 数据清洗器
// 清洗流水线: 列名规范化 -> 数值转换 -> 分组键填充 -> 分组中位数填充 -> 计算人均GDP
// 每个阶段都不会中断流水线，数据质量问题以残留缺失值的形式保留在输出里
type Cleaner struct {
	NumericColumns []string     // 需要转数值并填充的指标列
	GroupKey       string       // 分组键列名(region)
	GroupDefault   string       // 分组键缺失时的默认值(Unknown)
	RegionRules    []RegionRule // 展示地区重映射规则
	Log            *storage.Logger
}

// NewCleaner 从数据字典配置构造清洗器
func NewCleaner(dcfg *config.DataConfig, logger *storage.Logger) *Cleaner {
	rules := make([]RegionRule, 0, len(dcfg.RegionSplits))
	for _, s := range dcfg.RegionSplits {
		rules = append(rules, RegionRule{Region: s.Region, Keyword: s.Keyword, Display: s.Display})
	}

	return &Cleaner{
		NumericColumns: dcfg.NumericColumns,
		GroupKey:       dcfg.GroupKey,
		GroupDefault:   dcfg.GroupDefault,
		RegionRules:    rules,
		Log:            logger,
	}
}

func (c *Cleaner) warn(msg string) {
	if c.Log != nil {
		c.Log.Warning(msg)
	}
}

// Clean 对整个数据集执行清洗流水线
func (c *Cleaner) Clean(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	// 1. 列名规范化，未规范化的原始表头不允许进入后续处理
	if err := df.SetNames(NormalizeColumns(df.Names())...); err != nil {
		return df, fmt.Errorf("列名规范化失败: %w", err)
	}

	// 2. 指标列转数值，解析失败的单元格变为缺失值
	df = c.CoerceNumeric(df)

	// 3. 分组键填充，保证分组键无缺失
	df = c.FillGroupKey(df)

	// 4. 分组中位数填充 + 全局中位数兜底
	df = c.ImputeNumericFields(df)

	// 5. 计算人均GDP(依赖已填充的gdp和population)
	df = c.DeriveGDPPerCapita(df)

	// 6. 存在subregion列时计算展示地区
	df = c.AddRegionDisplay(df)

	return df, df.Err
}

// CoerceNumeric 把指标列逐格转为浮点数
// 无法解析的单元格变为NaN而不是报错; 数据集中不存在的列跳过
func (c *Cleaner) CoerceNumeric(df dataframe.DataFrame) dataframe.DataFrame {
	for _, name := range c.NumericColumns {
		if !utils.HasColumn(df, name) {
			continue
		}

		records := df.Col(name).Records()
		values := make([]float64, len(records))
		for i, r := range records {
			v, err := strconv.ParseFloat(strings.TrimSpace(r), 64)
			if err != nil {
				values[i] = math.NaN()
				continue
			}
			values[i] = v
		}

		df = df.Mutate(series.New(values, series.Float, name))
	}
	return df
}

// FillGroupKey 填充分组键列
// 列不存在时整列创建为默认值; 存在时把缺失/空白单元格替换为默认值
func (c *Cleaner) FillGroupKey(df dataframe.DataFrame) dataframe.DataFrame {
	n := df.Nrow()

	if !utils.HasColumn(df, c.GroupKey) {
		c.warn(fmt.Sprintf("缺少分组键列 %s，整列填充为 %s", c.GroupKey, c.GroupDefault))
		filled := make([]string, n)
		for i := range filled {
			filled[i] = c.GroupDefault
		}
		return df.Mutate(series.New(filled, series.String, c.GroupKey))
	}

	col := df.Col(c.GroupKey)
	records := col.Records()
	for i := 0; i < n; i++ {
		if col.Elem(i).IsNA() || strings.TrimSpace(records[i]) == "" {
			records[i] = c.GroupDefault
		}
	}
	return df.Mutate(series.New(records, series.String, c.GroupKey))
}

// ImputeNumericFields 对所有指标列执行分组中位数填充
// 整列无数据的列保持缺失，只在缺失值统计里体现，不会被编造成0
func (c *Cleaner) ImputeNumericFields(df dataframe.DataFrame) dataframe.DataFrame {
	groups := df.Col(c.GroupKey).Records()

	for _, name := range c.NumericColumns {
		if !utils.HasColumn(df, name) {
			continue
		}

		imputed := ImputeByGroupMedian(df.Col(name).Float(), groups)
		df = df.Mutate(series.New(imputed, series.Float, name))
	}
	return df
}

// DeriveGDPPerCapita 计算人均GDP列: gdp * 1e9 / population (GDP单位为十亿美元)
// population为0或缺失的行得到Inf/NaN，保留为数据质量信号而不是中断流水线
func (c *Cleaner) DeriveGDPPerCapita(df dataframe.DataFrame) dataframe.DataFrame {
	if !utils.HasColumn(df, ColGDP) || !utils.HasColumn(df, ColPopulation) {
		c.warn(fmt.Sprintf("缺少 %s 或 %s 列，跳过人均GDP计算", ColGDP, ColPopulation))
		return df
	}

	gdp := df.Col(ColGDP).Float()
	pop := df.Col(ColPopulation).Float()

	perCapita := make([]float64, len(gdp))
	for i := range gdp {
		perCapita[i] = gdp[i] * 1e9 / pop[i]
	}
	return df.Mutate(series.New(perCapita, series.Float, ColGDPPerCapita))
}

// AddRegionDisplay 根据subregion列计算展示地区列
// 没有subregion列时不做任何事
func (c *Cleaner) AddRegionDisplay(df dataframe.DataFrame) dataframe.DataFrame {
	if !utils.HasColumn(df, ColSubregion) || !utils.HasColumn(df, c.GroupKey) {
		return df
	}

	rules := c.RegionRules
	if len(rules) == 0 {
		rules = DefaultRegionRules
	}

	regions := df.Col(c.GroupKey).Records()
	subregions := df.Col(ColSubregion).Records()

	display := make([]string, len(regions))
	for i := range regions {
		display[i] = MapRegion(rules, regions[i], subregions[i])
	}
	return df.Mutate(series.New(display, series.String, ColRegionShow))
}
