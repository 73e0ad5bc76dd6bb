package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/renjie/prism-units/pkg/core/domain"
)

// JsonRequestIngestor 专门处理 JSON 格式的换算请求流
type JsonRequestIngestor struct {
	// downstream 是数据流向的下一站
	// 在 CLI 中是 UnitConverter.ConvertAll
	downstream Downstream
}

func NewJsonRequestIngestor(downstream Downstream) *JsonRequestIngestor {
	return &JsonRequestIngestor{
		downstream: downstream,
	}
}

// IngestStream 接受 JSON 数组 [...] 或单个对象 {...}
func (j *JsonRequestIngestor) IngestStream(ctx context.Context, stream io.Reader) (*domain.IngestionResult, error) {
	// 使用 bufio.Reader 预读首个非空白字节，避免消耗 Token
	bufStream := bufio.NewReader(stream)
	head, err := peekNonSpace(bufStream)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &domain.IngestionResult{}, nil
		}
		return nil, fmt.Errorf("failed to peek start token: %w", err)
	}

	decoder := json.NewDecoder(bufStream)
	result := &domain.IngestionResult{}

	switch head {
	// Case 1: JSON Array [...]
	case '[':
		// Consume '['
		if _, err := decoder.Token(); err != nil {
			return nil, err
		}
		return j.decodeArray(ctx, decoder, result)

	// Case 2: Single JSON Object {...}
	case '{':
		var p rawPayload
		if err := decoder.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode single object: %w", err)
		}

		result.Total++
		req, err := p.toRequest()
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("mapping error: %v", err))
			return result, nil
		}
		if req.ID == "" {
			req.ID = "item-1"
		}

		if err := j.downstream(ctx, []domain.ConversionRequest{req}); err != nil {
			return nil, err
		}
		result.Success++
		return result, nil
	}

	return nil, fmt.Errorf("unexpected JSON format (expected '[' or '{', got '%c')", head)
}

// IngestBatch 按格式名校验后摄入
func (j *JsonRequestIngestor) IngestBatch(ctx context.Context, file io.Reader, format string) (*domain.IngestionResult, error) {
	if format != "json" {
		return nil, fmt.Errorf("unsupported format for JsonIngestor: %s", format)
	}
	return j.IngestStream(ctx, file)
}

// --- Internal Parsing Logic ---

// rawPayload 定义接收的扁平化 JSON 结构
type rawPayload struct {
	ID        string      `json:"id"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	Value     json.Number `json:"value"` // 数字或数字字符串，使用 json.Number 避免精度丢失
	Precision *int        `json:"precision"`
}

func (p rawPayload) toRequest() (domain.ConversionRequest, error) {
	req := domain.ConversionRequest{
		ID:        p.ID,
		From:      p.From,
		To:        p.To,
		Value:     p.Value.String(),
		Precision: p.Precision,
	}
	if err := checkRequest(req); err != nil {
		return domain.ConversionRequest{}, err
	}
	return req, nil
}

func (j *JsonRequestIngestor) decodeArray(ctx context.Context, decoder *json.Decoder, result *domain.IngestionResult) (*domain.IngestionResult, error) {
	var buffer []domain.ConversionRequest

	for decoder.More() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var p rawPayload
		if err := decoder.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode error inside array: %w", err)
		}

		result.Total++
		req, err := p.toRequest()
		if err != nil {
			// 策略：记录错误并继续
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("item %d skipped: %v", result.Total, err))
			continue
		}
		if req.ID == "" {
			req.ID = "item-" + strconv.Itoa(result.Total)
		}

		buffer = append(buffer, req)
		result.Success++

		// Flush buffer if full
		if len(buffer) >= batchSize {
			if err := j.downstream(ctx, buffer); err != nil {
				return result, err
			}
			buffer = nil
		}
	}

	// Flush remaining
	if len(buffer) > 0 {
		if err := j.downstream(ctx, buffer); err != nil {
			return result, err
		}
	}

	// Consume closing ']'
	if _, err := decoder.Token(); err != nil {
		return result, err
	}
	return result, nil
}

func peekNonSpace(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b, r.UnreadByte()
	}
}
