package tools

import (
	"bytes"
	"fmt"
	"reflect"
	"time"

	"github.com/xuri/excelize/v2"
)

const DateLayout = "2006-01-02"

type excelColumn struct {
	index  []int
	header string
}

// WriteSheet 把结构体切片按 `excel` 标签写入一个工作表，标签为 "-" 的字段忽略
func WriteSheet(f *excelize.File, sheet string, rows any) error {
	v := reflect.ValueOf(rows)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("rows %T 不是切片", rows)
	}

	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("rows %T 不是结构体切片", rows)
	}

	if sheet == "" {
		sheet = "Sheet1"
	}
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	columns := collectColumns(elemType, nil)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	line := 2
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}
		for j, col := range columns {
			cell, err := excelize.CoordinatesToCellName(j+1, line)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(elem.FieldByIndex(col.index))); err != nil {
				return err
			}
		}
		line++
	}
	return nil
}

// ExportSheet 生成只有一个工作表的 xlsx 文件
func ExportSheet(sheet string, rows any) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := WriteSheet(f, sheet, rows); err != nil {
		return nil, err
	}
	if sheet != "" && sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, err
		}
	}
	return f.WriteToBuffer()
}

func collectColumns(t reflect.Type, parent []int) []excelColumn {
	var columns []excelColumn
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		idx := append(append([]int(nil), parent...), i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			columns = append(columns, collectColumns(sf.Type, idx)...)
			continue
		}
		tag := sf.Tag.Get("excel")
		if tag == "-" {
			continue
		}
		if tag == "" {
			tag = sf.Name
		}
		columns = append(columns, excelColumn{index: idx, header: tag})
	}
	return columns
}

func cellValue(fv reflect.Value) any {
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return ""
		}
		fv = fv.Elem()
	}
	if t, ok := fv.Interface().(time.Time); ok {
		if t.IsZero() {
			return ""
		}
		return t.Format(DateLayout)
	}
	if s, ok := fv.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fv.Interface()
}
