// data_handler.go
package email

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-gota/gota/dataframe"

	"CountryEconomics/src/datasource/file"
	"CountryEconomics/src/storage"
	"CountryEconomics/src/utils"
)

// AttachmentHandler 把数据邮件的附件保存到数据目录
// 只处理csv/xlsx附件，同一封邮件(UID)不会重复处理
type AttachmentHandler struct {
	TargetSubject string          // 目标邮件主题关键词
	DataDir       string          // 附件保存目录
	processedUIDs map[uint32]bool // 已处理邮件UID记录
	mu            sync.RWMutex    // 保护processedUIDs的读写锁
}

func NewAttachmentHandler(subject, dataDir string) *AttachmentHandler {
	return &AttachmentHandler{
		TargetSubject: subject,
		DataDir:       dataDir,
		processedUIDs: make(map[uint32]bool),
	}
}

// isProcessed 检查邮件是否已处理过(线程安全)
func (h *AttachmentHandler) isProcessed(uid uint32) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.processedUIDs[uid]
}

// markAsProcessed 标记邮件为已处理(线程安全)
func (h *AttachmentHandler) markAsProcessed(uid uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.processedUIDs[uid] = true
}

// 可处理的数据附件扩展名
var dataFileExts = []string{".csv", ".xlsx"}

// isDataFile 判断附件是否为可处理的数据文件
func isDataFile(filename string) bool {
	return utils.Contains(dataFileExts, strings.ToLower(filepath.Ext(filename)))
}

// Handle 处理单个邮件，保存数据附件
// 返回最后保存的文件路径，没有保存任何附件时返回空串
func (h *AttachmentHandler) Handle(e *Email, logger *storage.Logger) (string, error) {
	if e == nil || h.isProcessed(e.UID) {
		return "", nil
	}

	if !strings.Contains(e.Subject, h.TargetSubject) {
		logger.Debug("跳过主题不匹配的邮件: " + e.Subject)
		return "", nil
	}

	logger.Info(fmt.Sprintf("处理邮件: %s 发件人: %s 日期: %s",
		e.Subject, e.From, e.Date.Format("2006-01-02 15:04:05")))

	if err := os.MkdirAll(h.DataDir, 0755); err != nil {
		return "", fmt.Errorf("创建目录失败: %w", err)
	}

	savedPath := ""
	for _, attachment := range e.Attachments {
		if !isDataFile(attachment.Filename) {
			continue
		}

		filePath := filepath.Join(h.DataDir, attachment.Filename)
		if err := os.WriteFile(filePath, attachment.Content, 0644); err != nil {
			return "", fmt.Errorf("保存附件失败: %w", err)
		}

		logger.Info("附件已保存到: " + filePath)
		savedPath = filePath
	}

	if savedPath != "" {
		h.markAsProcessed(e.UID)
	}

	return savedPath, nil
}

// LoadDataFrame 把附件内容直接解析为DataFrame
// 扩展名决定解析方式，sheetName只对xlsx生效
func LoadDataFrame(a *Attachment, sheetName string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(a.Filename)) {
	case ".xlsx":
		return file.ReadXLSXBytes(a.Content, sheetName)
	case ".csv":
		return file.ReadCSVBytes(a.Content)
	default:
		return dataframe.New(), fmt.Errorf("不支持的附件类型: %s", a.Filename)
	}
}
