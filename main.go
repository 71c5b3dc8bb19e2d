package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron"

	"CountryEconomics/src/config"
	"CountryEconomics/src/datasource/email"
	"CountryEconomics/src/datasource/file"
	"CountryEconomics/src/processor"
	"CountryEconomics/src/storage"
	"CountryEconomics/src/utils"
)

func main() {
	configDir := flag.String("config", "./config", "配置文件目录")
	serve := flag.Bool("serve", false, "常驻模式: 定时检查数据邮件并监控数据目录")
	sendReport := flag.Bool("report", false, "清洗完成后把结果邮件发给运维")
	flag.Parse()

	cfg, dcfg, err := config.LoadConfig(*configDir, "config.json", "columns.json")
	if err != nil {
		log.Fatal("加载配置失败:", err)
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()

	// 批处理: 读入 -> 清洗 -> 写出 -> 报告
	if err := runPipeline(cfg, dcfg, logger, *sendReport); err != nil {
		logger.Fatal(err.Error())
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !*serve {
		return
	}

	runServe(cfg, dcfg, logger, *sendReport)
}

// runPipeline 执行一次完整的清洗流水线
func runPipeline(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger, sendReport bool) error {
	t1 := time.Now()

	df, err := file.ReadDataFrame(cfg.InputFile, cfg.SheetName)
	if err != nil {
		return fmt.Errorf("读取输入文件 %s 失败: %w", cfg.InputFile, err)
	}

	cleaner := processor.NewCleaner(dcfg, logger)
	cleaned, err := cleaner.Clean(df)
	if err != nil {
		return fmt.Errorf("清洗失败: %w", err)
	}

	if err := file.WriteCSV(cleaned, cfg.OutputFile); err != nil {
		return fmt.Errorf("写出 %s 失败: %w", cfg.OutputFile, err)
	}

	if cfg.ExcelOutput != "" {
		if err := utils.SaveToExcel(cleaned, cfg.ExcelOutput); err != nil {
			return fmt.Errorf("写出 %s 失败: %w", cfg.ExcelOutput, err)
		}
	}

	summary := fmt.Sprintf("清洗完成 Shape: (%d, %d) 耗时: %v\n剩余缺失值统计:\n%s",
		cleaned.Nrow(), cleaned.Ncol(), time.Since(t1),
		processor.FormatMissingCounts(cleaned))
	logger.Info(summary)

	if sendReport {
		if err := email.SendReport(cfg, summary, cfg.OutputFile, cfg.ExcelOutput); err != nil {
			// 报告发送失败不影响已经落盘的结果
			logger.Error("发送报告失败: " + err.Error())
		}
	}

	return nil
}

// runServe 常驻模式: 定时拉取数据邮件 + 监控数据目录变化
func runServe(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger, sendReport bool) {
	mailClient := email.NewMailClient(
		cfg.Email.Server,
		cfg.Email.Username,
		cfg.Email.Password)

	handler := email.NewAttachmentHandler(cfg.Email.TargetSubject, cfg.DataDir)

	// 设置定时任务
	c := cron.New()

	interval := time.Duration(cfg.Email.CheckInterval).String() // 例如 "5m0s"
	cronSpec := fmt.Sprintf("@every %s", interval)

	err := c.AddFunc(cronSpec, func() {
		logger.Info(fmt.Sprintf("开始定时检查(间隔: %v)...", cronSpec))

		newEmail, err := email.CheckAndProcessEmails(mailClient, cfg.Email.TargetSubject, logger)
		if err != nil {
			logger.Error("检查处理邮件失败: " + err.Error())
			return
		}
		if newEmail == nil {
			return
		}

		// 附件落盘后由目录监控触发流水线重跑
		if _, err := handler.Handle(newEmail, logger); err != nil {
			logger.Error(fmt.Sprintf("处理邮件失败(UID:%d): %v", newEmail.UID, err))
		}

		logger.CheckRotate(cfg)
	})
	if err != nil {
		logger.Error("创建定时任务失败: " + err.Error())
		return
	}

	c.Start()
	defer c.Stop()

	// 监控数据目录，输入文件更新时重跑流水线
	monitor, err := file.NewFileMonitor(cfg.DataDir)
	if err != nil {
		logger.Error("创建目录监控失败: " + err.Error())
		return
	}
	defer monitor.Close()

	logger.Info(fmt.Sprintf("数据监控服务已启动(检查间隔: %v)，按Ctrl+C退出", interval))

	err = monitor.Watch(func(path string) {
		if filepath.Base(path) != filepath.Base(cfg.InputFile) {
			return
		}
		logger.Info("检测到输入文件更新: " + path)
		if err := runPipeline(cfg, dcfg, logger, sendReport); err != nil {
			logger.Error(err.Error())
		}
	})
	if err != nil {
		logger.Error("目录监控出错: " + err.Error())
	}
}
