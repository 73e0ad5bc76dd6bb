package quarantine

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/renjie/prism-units/pkg/core/domain"
	"github.com/renjie/prism-units/pkg/core/ports"
)

// JSONLStore 以 JSON Lines 格式追加写入隔离记录
// 每条记录一行，便于 grep / jq 处理以及后续补充单位定义
type JSONLStore struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
}

var _ ports.QuarantineRepository = (*JSONLStore)(nil)

// NewJSONLStore writes records to w. The caller owns w.
func NewJSONLStore(w io.Writer) *JSONLStore {
	return &JSONLStore{enc: json.NewEncoder(w)}
}

// OpenJSONLStore opens (or creates) path in append mode.
func OpenJSONLStore(path string) (*JSONLStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open quarantine file %s: %w", path, err)
	}
	return &JSONLStore{enc: json.NewEncoder(f), closer: f}, nil
}

// Save 实现 ports.QuarantineRepository
func (s *JSONLStore) Save(ctx context.Context, record domain.QuarantineUnit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(record); err != nil {
		return fmt.Errorf("write quarantine record %s: %w", record.ID, err)
	}
	return nil
}

// Close closes the underlying file when the store owns one.
func (s *JSONLStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// ReadAll decodes every record from a JSON Lines stream.
func ReadAll(r io.Reader) ([]domain.QuarantineUnit, error) {
	var out []domain.QuarantineUnit
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var q domain.QuarantineUnit
		if err := json.Unmarshal(scanner.Bytes(), &q); err != nil {
			return out, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, q)
	}
	return out, scanner.Err()
}
