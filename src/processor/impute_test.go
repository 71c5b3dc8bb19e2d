package processor

import (
	"math"
	"testing"
)

func TestNormalizeColumns(t *testing.T) {
	headers := []string{"  Country ", "GDP Growth (%)", "Debt/GDP", "Jobless  Rate", "population"}
	want := []string{"country", "gdp_growth_", "debt_gdp", "jobless_rate", "population"}

	got := NormalizeColumns(headers)
	if len(got) != len(want) {
		t.Fatalf("长度不一致: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeColumns[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// 规范化必须幂等
func TestNormalizeColumnsIdempotent(t *testing.T) {
	headers := []string{"  Country ", "GDP Growth (%)", "Debt/GDP", "", "___", "现有 列"}

	once := NormalizeColumns(headers)
	twice := NormalizeColumns(once)
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("非幂等: %q -> %q -> %q", headers[i], once[i], twice[i])
		}
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"奇数个", []float64{3, 1, 2}, 2},
		{"偶数个取中间平均", []float64{4, 2}, 3},
		{"跳过NaN", []float64{math.NaN(), 5, 1, math.NaN(), 3}, 3},
		{"单个值", []float64{7}, 7},
	}

	for _, tt := range tests {
		if got := Median(tt.values); got != tt.want {
			t.Errorf("%s: Median = %v, want %v", tt.name, got, tt.want)
		}
	}

	if !math.IsNaN(Median(nil)) {
		t.Error("空集的中位数应为NaN")
	}
	if !math.IsNaN(Median([]float64{math.NaN(), math.NaN()})) {
		t.Error("全缺失的中位数应为NaN")
	}
}

// 组内有数据时优先用组内中位数，而不是全局中位数
func TestImputeByGroupMedianGroupPreference(t *testing.T) {
	values := []float64{10, math.NaN(), 30, 20}
	groups := []string{"A", "A", "B", "A"}

	got := ImputeByGroupMedian(values, groups)
	if got[1] != 15 { // median(10, 20)
		t.Errorf("组内填充 = %v, want 15", got[1])
	}

	// 非缺失值保持不变
	for _, i := range []int{0, 2, 3} {
		if got[i] != values[i] {
			t.Errorf("非缺失值被改动: got[%d] = %v", i, got[i])
		}
	}
}

// 整组缺失时退回全局中位数
func TestImputeByGroupMedianFallback(t *testing.T) {
	values := []float64{10, 20, math.NaN()}
	groups := []string{"A", "A", "B"}

	got := ImputeByGroupMedian(values, groups)
	if got[2] != 15 { // 全局 median(10, 20)
		t.Errorf("全局兜底 = %v, want 15", got[2])
	}
}

// 整列无数据是唯一无法解决的情况，保持缺失而不是编造值
func TestImputeByGroupMedianNoData(t *testing.T) {
	values := []float64{math.NaN(), math.NaN(), math.NaN()}
	groups := []string{"A", "B", "A"}

	got := ImputeByGroupMedian(values, groups)
	for i, v := range got {
		if !math.IsNaN(v) {
			t.Errorf("整列无数据却被填充: got[%d] = %v", i, v)
		}
	}
}

// 结果与行顺序无关
func TestImputeByGroupMedianOrderIndependent(t *testing.T) {
	values := []float64{10, math.NaN(), 30, 20, math.NaN()}
	groups := []string{"A", "A", "B", "A", "B"}

	forward := ImputeByGroupMedian(values, groups)

	n := len(values)
	reversedValues := make([]float64, n)
	reversedGroups := make([]string, n)
	for i := 0; i < n; i++ {
		reversedValues[i] = values[n-1-i]
		reversedGroups[i] = groups[n-1-i]
	}
	backward := ImputeByGroupMedian(reversedValues, reversedGroups)

	for i := 0; i < n; i++ {
		if forward[i] != backward[n-1-i] {
			t.Errorf("行顺序影响了结果: forward[%d]=%v backward[%d]=%v",
				i, forward[i], n-1-i, backward[n-1-i])
		}
	}
}
