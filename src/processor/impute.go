// impute.go
package processor

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// 列名中非法字符的匹配模式(预编译)
var columnPattern = regexp.MustCompile("[^a-z0-9]+")

// NormalizeColumn 把单个原始列名规范为 lowercase snake_case
// 规则: 去首尾空白 -> 转小写 -> 连续非[a-z0-9]字符压缩为单个下划线
// 幂等: 规范化结果再次规范化不变
func NormalizeColumn(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	return columnPattern.ReplaceAllString(s, "_")
}

// NormalizeColumns 批量规范化列名，保持原有顺序
func NormalizeColumns(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeColumn(h)
	}
	return normalized
}

// Median 计算中位数，NaN视为缺失被跳过
// 偶数个取中间两个的算术平均值; 全部缺失时返回NaN
func Median(values []float64) float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}

	sort.Float64s(clean)
	mid := len(clean) / 2
	if len(clean)%2 == 1 {
		return clean[mid]
	}
	return (clean[mid-1] + clean[mid]) / 2
}

// ImputeByGroupMedian 分组中位数填充，全局中位数兜底
// 两轮处理:
//  1. 按分组键分区，区内缺失值用该区非缺失值的中位数填充
//  2. 仍然缺失的(整组无数据)用全数据集的中位数填充
//
// 整列无任何数据时中位数无定义，该列保持缺失返回
// 结果只依赖分区归属和值集合，与行顺序无关
func ImputeByGroupMedian(values []float64, groups []string) []float64 {
	out := make([]float64, len(values))
	copy(out, values)

	// 第一轮: 收集每组的非缺失值
	groupValues := make(map[string][]float64)
	for i, v := range values {
		if !math.IsNaN(v) {
			groupValues[groups[i]] = append(groupValues[groups[i]], v)
		}
	}

	groupMedians := make(map[string]float64, len(groupValues))
	for g, vals := range groupValues {
		groupMedians[g] = Median(vals)
	}

	for i := range out {
		if !math.IsNaN(out[i]) {
			continue
		}
		if m, ok := groupMedians[groups[i]]; ok {
			out[i] = m
		}
	}

	// 第二轮: 整组缺失的行退回全局中位数
	global := Median(out)
	if math.IsNaN(global) {
		return out // 整列无数据，保持缺失
	}
	for i := range out {
		if math.IsNaN(out[i]) {
			out[i] = global
		}
	}
	return out
}
