// summary.go
package processor

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"

	"CountryEconomics/src/utils"
)

// MissingCounts 统计每列剩余的缺失值数量
// 清洗后仍非零的列说明该列(或其某些行)在整个数据集中没有可用数据
func MissingCounts(df dataframe.DataFrame) map[string]int {
	counts := make(map[string]int, len(df.Names()))
	for _, name := range df.Names() {
		col := df.Col(name)
		n := 0
		for i := 0; i < col.Len(); i++ {
			if col.Elem(i).IsNA() {
				n++
			}
		}
		counts[name] = n
	}
	return counts
}

// FormatMissingCounts 按列顺序格式化缺失值统计，供运维查看
func FormatMissingCounts(df dataframe.DataFrame) string {
	counts := MissingCounts(df)

	var b strings.Builder
	for _, name := range df.Names() {
		b.WriteString(fmt.Sprintf("  %-20s %d\n", name, counts[name]))
	}
	return b.String()
}

// CalculateMetrics 计算数据集概览指标
func CalculateMetrics(df dataframe.DataFrame, numericColumns []string) map[string]interface{} {
	metrics := map[string]interface{}{
		"rows":         df.Nrow(),
		"cols":         df.Ncol(),
		"last_updated": time.Now(),
	}

	for _, name := range numericColumns {
		if !utils.HasColumn(df, name) {
			continue
		}
		values := utils.DropNaN(df.Col(name).Float())
		if len(values) > 0 {
			metrics["avg_"+name] = stat.Mean(values, nil)
		}
	}
	return metrics
}
