package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `{
  "email": {
    "server": "imap.example.com:993",
    "username": "data@example.com",
    "password": "secret",
    "target_subject": "country economics",
    "check_interval": "5m"
  },
  "data_dir": "./data",
  "input_file": "./data/country_economics_data.csv",
  "output_file": "./data/imputed_country_economics_data.csv",
  "log_name": "app.log",
  "log_max_size": "10 * 1024 * 1024"
}`

const sampleColumns = `{
  "numeric_columns": ["gdp", "population"],
  "group_key": "region",
  "group_default": "Unknown",
  "region_splits": [
    {"region": "Americas", "keyword": "South America", "display": "South America"}
  ],
  "indicators": {"GDP per Capita (USD)": "gdp_per_capita"}
}`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(sampleConfig), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "columns.json"), []byte(sampleColumns), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, dcfg, err := LoadConfig(dir, "config.json", "columns.json")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Email.Server != "imap.example.com:993" {
		t.Errorf("Email.Server = %q", cfg.Email.Server)
	}
	if time.Duration(cfg.Email.CheckInterval) != 5*time.Minute {
		t.Errorf("CheckInterval = %v, want 5m", time.Duration(cfg.Email.CheckInterval))
	}

	if dcfg.GroupKey != "region" || dcfg.GroupDefault != "Unknown" {
		t.Errorf("数据字典解析错误: %+v", dcfg)
	}
	if len(dcfg.NumericColumns) != 2 {
		t.Errorf("NumericColumns = %v", dcfg.NumericColumns)
	}
	if len(dcfg.RegionSplits) != 1 || dcfg.RegionSplits[0].Display != "South America" {
		t.Errorf("RegionSplits = %+v", dcfg.RegionSplits)
	}

	if got := dcfg.GetIndicator("GDP per Capita (USD)"); got != "gdp_per_capita" {
		t.Errorf("GetIndicator = %q", got)
	}
	dcfg.SetIndicator("Area", "area")
	if got := dcfg.GetIndicator("Area"); got != "area" {
		t.Errorf("SetIndicator后 GetIndicator = %q", got)
	}
}
