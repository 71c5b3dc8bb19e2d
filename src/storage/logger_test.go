package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoggerWriteAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("清洗完成 Shape: (3, 5)")
	logger.Warning("缺少分组键列 region")
	logger.Error("读取输入文件失败")

	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	for _, want := range []string{"INFO", "WARNING", "ERROR", "清洗完成"} {
		if !strings.Contains(content, want) {
			t.Errorf("日志缺少 %q:\n%s", want, content)
		}
	}
}

func TestLoggerSubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	ch := logger.Subscribe()
	logger.Info("hello subscriber")

	select {
	case msg := <-ch:
		if !strings.Contains(msg, "hello subscriber") {
			t.Errorf("订阅消息 = %q", msg)
		}
	case <-time.After(time.Second):
		t.Error("未收到订阅消息")
	}
}

func TestLoggerReopen(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(filepath.Join(dir, "a.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	logger.Info("first")

	second := filepath.Join(dir, "b.log")
	if err := logger.Reopen(second); err != nil {
		t.Fatal(err)
	}
	logger.Info("second")

	data, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "second") {
		t.Errorf("新日志文件内容 = %q", string(data))
	}
}
