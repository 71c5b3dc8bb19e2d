// reader.go
package file

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
)

// ReadDataFrame 按扩展名读取数据文件
// 所有列先按字符串加载，数值转换留给清洗阶段统一处理
func ReadDataFrame(filePath, sheetName string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx":
		return ReadXLSX(filePath, sheetName)
	default:
		return ReadCSV(filePath)
	}
}

// ReadCSV 读取csv文件为DataFrame
func ReadCSV(filePath string) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.New(), fmt.Errorf("打开csv文件失败: %w", err)
	}
	defer f.Close()

	return readCSV(f)
}

// ReadCSVBytes 从内存数据读取csv(邮件附件场景)
func ReadCSVBytes(data []byte) (dataframe.DataFrame, error) {
	return readCSV(bytes.NewReader(data))
}

func readCSV(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.New(), fmt.Errorf("解析csv失败: %w", df.Err)
	}
	return df, nil
}

// ReadXLSX 读取xlsx文件的指定工作表为DataFrame
// sheetName为空时取第一个工作表
func ReadXLSX(filePath, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.New(), fmt.Errorf("打开xlsx文件失败: %w", err)
	}
	return sheetFromFile(xlFile, sheetName)
}

// ReadXLSXBytes 从内存数据读取xlsx(邮件附件场景)
func ReadXLSXBytes(data []byte, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return dataframe.New(), fmt.Errorf("打开xlsx数据失败: %w", err)
	}
	return sheetFromFile(xlFile, sheetName)
}

func sheetFromFile(xlFile *xlsx.File, sheetName string) (dataframe.DataFrame, error) {
	if len(xlFile.Sheets) == 0 {
		return dataframe.New(), fmt.Errorf("excel文件中没有工作表")
	}

	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return dataframe.New(), fmt.Errorf("工作表 %s 不存在", sheetName)
		}
		sheet = s
	}

	return SheetToDataFrame(sheet)
}

// SheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame
// 第一行是标题行，数据从第二行开始; 短行用空串补齐保持列对齐
func SheetToDataFrame(sheet *xlsx.Sheet) (dataframe.DataFrame, error) {
	if len(sheet.Rows) < 2 {
		return dataframe.New(), fmt.Errorf("工作表没有数据行")
	}

	// 获取列名
	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.String())
	}

	// 准备数据列
	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-1)
	}

	// 填充数据
	for _, row := range sheet.Rows[1:] {
		for i := range headers {
			if i < len(row.Cells) {
				columns[i] = append(columns[i], row.Cells[i].String())
			} else {
				columns[i] = append(columns[i], "")
			}
		}
	}

	// 创建Series切片，统一作为字符串加载
	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}

	df := dataframe.New(seriesList...)
	return df, df.Err
}

// WriteCSV 把清洗后的DataFrame写出为csv
// 写出失败视为致命错误由调用方终止，避免残留半成品输出
func WriteCSV(df dataframe.DataFrame, filePath string) error {
	if err := EnsureDir(filepath.Dir(filePath)); err != nil {
		return err
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("写出csv失败: %w", err)
	}
	return nil
}

// EnsureDir 确保目录存在
func EnsureDir(dirPath string) error {
	if dirPath == "" || dirPath == "." {
		return nil
	}
	if info, err := os.Stat(dirPath); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", dirPath)
	}
	return os.MkdirAll(dirPath, 0755)
}
