package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/renjie/prism-units/pkg/core/domain"
)

// Downstream receives decoded conversion requests in batches.
type Downstream func(context.Context, []domain.ConversionRequest) error

const batchSize = 100

// CsvRequestIngestor 专门处理 CSV 格式的换算请求流
// 表头: from,to,value 必填; precision,id 可选
type CsvRequestIngestor struct {
	downstream Downstream
}

// NewCsvRequestIngestor 创建 CSV 摄入器实例
func NewCsvRequestIngestor(downstream Downstream) *CsvRequestIngestor {
	return &CsvRequestIngestor{
		downstream: downstream,
	}
}

// IngestStream 逐行读取 CSV 流
func (c *CsvRequestIngestor) IngestStream(ctx context.Context, stream io.Reader) (*domain.IngestionResult, error) {
	reader := csv.NewReader(stream)
	// 允许变长字段，避免因某些行缺少非必填字段报错
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	result := &domain.IngestionResult{}

	// 1. Read Header
	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	headerMap := make(map[string]int)
	for i, h := range headers {
		headerMap[strings.ToLower(strings.TrimSpace(h))] = i
	}

	// Validate required columns
	if err := validateCsvHeaders(headerMap); err != nil {
		return nil, err
	}

	var buffer []domain.ConversionRequest

	// 2. Read Records
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return result, fmt.Errorf("failed to read csv record: %w", err)
			}
			result.Total++
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("csv read error at line %d: %v", pe.Line, err))
			continue
		}
		line, _ := reader.FieldPos(0)

		result.Total++
		req, err := parseRecord(record, headerMap)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if req.ID == "" {
			req.ID = "line-" + strconv.Itoa(line)
		}

		buffer = append(buffer, req)
		result.Success++

		if len(buffer) >= batchSize {
			if err := c.downstream(ctx, buffer); err != nil {
				return result, err
			}
			buffer = nil
		}
	}

	if len(buffer) > 0 {
		if err := c.downstream(ctx, buffer); err != nil {
			return result, err
		}
	}

	return result, nil
}

// IngestBatch 按格式名校验后摄入
func (c *CsvRequestIngestor) IngestBatch(ctx context.Context, file io.Reader, format string) (*domain.IngestionResult, error) {
	if strings.ToLower(format) != "csv" {
		return nil, fmt.Errorf("unsupported format for CsvIngestor: %s", format)
	}
	return c.IngestStream(ctx, file)
}

func validateCsvHeaders(headerMap map[string]int) error {
	required := []string{"from", "to", "value"}
	for _, req := range required {
		if _, ok := headerMap[req]; !ok {
			return fmt.Errorf("missing required csv header: %s", req)
		}
	}
	return nil
}

func parseRecord(record []string, headerMap map[string]int) (domain.ConversionRequest, error) {
	// Helper to get value gracefully
	get := func(col string) string {
		if idx, ok := headerMap[col]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	req := domain.ConversionRequest{
		ID:    get("id"),
		From:  get("from"),
		To:    get("to"),
		Value: get("value"),
	}
	if err := checkRequest(req); err != nil {
		return domain.ConversionRequest{}, err
	}

	if p := get("precision"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return domain.ConversionRequest{}, fmt.Errorf("invalid precision format: %s", p)
		}
		req = req.WithPrecision(n)
	}
	return req, nil
}

// checkRequest rejects rows that cannot form a request at all.
// Unit and value syntax are left to the converter, which reports them per outcome.
func checkRequest(req domain.ConversionRequest) error {
	switch {
	case req.From == "":
		return fmt.Errorf("from is empty")
	case req.To == "":
		return fmt.Errorf("to is empty")
	case req.Value == "":
		return fmt.Errorf("value is empty")
	}
	return nil
}
