// region.go
package processor

import "strings"

// RegionRule 地区重映射规则
// Region匹配原始地区名，Keyword匹配子地区关键字(空串表示该地区的默认规则)
type RegionRule struct {
	Region  string
	Keyword string
	Display string
}

// DefaultRegionRules 美洲拆分为南/北美洲，其余地区原样保留
var DefaultRegionRules = []RegionRule{
	{Region: "Americas", Keyword: "South America", Display: "South America"},
	{Region: "Americas", Keyword: "", Display: "North America"},
}

// MapRegion 按规则表计算展示用地区名
// 规则按顺序匹配: 先匹配Region，再看Keyword是否出现在子地区中
// 没有命中任何规则时原样返回region
func MapRegion(rules []RegionRule, region, subregion string) string {
	for _, r := range rules {
		if r.Region != region {
			continue
		}
		if r.Keyword == "" || strings.Contains(subregion, r.Keyword) {
			return r.Display
		}
	}
	return region
}
