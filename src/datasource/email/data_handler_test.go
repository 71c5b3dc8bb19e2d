package email

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"CountryEconomics/src/storage"
)

func newTestLogger(t *testing.T) *storage.Logger {
	t.Helper()
	logger, err := storage.NewLogger(filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger
}

func TestLoadDataFrameCSV(t *testing.T) {
	a := &Attachment{
		Filename: "country_economics_data.csv",
		Content:  []byte("Country,Region,GDP\nAlpha,Asia,10\nBeta,Europe,20\n"),
	}

	df, err := LoadDataFrame(a, "")
	if err != nil {
		t.Fatal(err)
	}
	if df.Nrow() != 2 || df.Ncol() != 3 {
		t.Errorf("Shape = (%d, %d), want (2, 3)", df.Nrow(), df.Ncol())
	}
}

func TestLoadDataFrameUnsupported(t *testing.T) {
	a := &Attachment{Filename: "report.pdf", Content: []byte("%PDF")}
	if _, err := LoadDataFrame(a, ""); err == nil {
		t.Error("不支持的附件类型应该报错")
	}
}

func TestHandleSavesAttachment(t *testing.T) {
	dataDir := t.TempDir()
	logger := newTestLogger(t)
	handler := NewAttachmentHandler("country economics", dataDir)

	e := &Email{
		UID:     42,
		Date:    time.Now(),
		From:    "data@example.com",
		Subject: "country economics 最新数据",
		Attachments: []*Attachment{
			{Filename: "notes.txt", Content: []byte("skip me")},
			{Filename: "data.csv", Content: []byte("a,b\n1,2\n")},
		},
	}

	path, err := handler.Handle(e, logger)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dataDir, "data.csv") {
		t.Errorf("保存路径 = %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("附件未落盘: %v", err)
	}

	// 同一封邮件不重复处理
	again, err := handler.Handle(e, logger)
	if err != nil {
		t.Fatal(err)
	}
	if again != "" {
		t.Errorf("重复处理返回 %q, want 空串", again)
	}
}

func TestHandleSubjectMismatch(t *testing.T) {
	handler := NewAttachmentHandler("country economics", t.TempDir())
	logger := newTestLogger(t)

	e := &Email{
		UID:         7,
		Subject:     "别的什么邮件",
		Attachments: []*Attachment{{Filename: "data.csv", Content: []byte("a\n1\n")}},
	}

	path, err := handler.Handle(e, logger)
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("主题不匹配却保存了 %q", path)
	}
}

func TestFilterLatestTargetEmail(t *testing.T) {
	now := time.Now()
	emails := []*Email{
		{UID: 1, Subject: "country economics 旧数据", Date: now.Add(-2 * time.Hour)},
		{UID: 2, Subject: "无关邮件", Date: now},
		{UID: 3, Subject: "country economics 新数据", Date: now.Add(-time.Hour)},
	}

	got := filterLatestTargetEmail(emails, "country economics")
	if got == nil || got.UID != 3 {
		t.Errorf("应返回最新的目标邮件, got %+v", got)
	}

	if filterLatestTargetEmail(emails, "不存在的关键词") != nil {
		t.Error("无匹配时应返回nil")
	}
}
