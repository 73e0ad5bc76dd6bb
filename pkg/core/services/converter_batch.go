package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/renjie/prism-units/pkg/core/domain"
)

// ValidateAll 批量校验一份单位清单
// units 被视为不可变配置: 结果按输入顺序返回，失败项封装为隔离记录
func (s *UnitConverter) ValidateAll(ctx context.Context, units []string) (domain.ValidationReport, error) {
	info, _ := domain.FromContext(ctx)
	batchID := info.BatchID
	if batchID == "" {
		batchID = uuid.NewString()
	}

	results := make([]domain.ValidationResult, len(units))

	// Semaphore-style bounded concurrency
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrencyLimit)

	for i, raw := range units {
		i, raw := i, raw
		g.Go(func() error {
			// Context cancellation check (Fast fail)
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.validateOne(raw)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.ValidationReport{}, err
	}

	report := domain.ValidationReport{BatchID: batchID, Results: results}
	now := time.Now()
	for _, r := range results {
		if r.Valid {
			continue
		}
		report.Invalid++
		report.Quarantined = append(report.Quarantined, domain.QuarantineUnit{
			ID:         uuid.NewString(),
			Raw:        r.Raw,
			Normalized: r.Normalized,
			Reason:     r.Reason,
			Kind:       r.Kind,
			CreatedAt:  now,
			Status:     domain.QuarantineStatusPending,
			BatchID:    batchID,
		})
	}

	if s.quarantineRepo != nil {
		for _, q := range report.Quarantined {
			if err := s.quarantineRepo.Save(ctx, q); err != nil {
				s.logger.Warn("failed to save quarantined unit",
					zap.String("raw", q.Raw),
					zap.String("batch_id", batchID),
					zap.String("trace_id", info.TraceID),
					zap.Error(err))
			}
		}
	}

	s.logger.Info("unit batch validated",
		zap.String("batch_id", batchID),
		zap.String("trace_id", info.TraceID),
		zap.String("source", string(info.Source)),
		zap.Int("total", len(units)),
		zap.Int("invalid", report.Invalid))

	return report, nil
}

func (s *UnitConverter) validateOne(raw string) domain.ValidationResult {
	_, n, err := s.resolve(raw)
	s.observe("is_valid", err)

	res := domain.ValidationResult{Raw: raw, Normalized: n.Normalized, Valid: err == nil}
	if err != nil {
		res.Kind = domain.KindOf(err)
		res.Reason = err.Error()
	}
	return res
}

// ConvertAll 批量换算
// 单条请求的错误记录在对应的 ConversionOutcome 中，只有上下文取消才会中断整个批次
func (s *UnitConverter) ConvertAll(ctx context.Context, requests []domain.ConversionRequest) ([]domain.ConversionOutcome, error) {
	outcomes := make([]domain.ConversionOutcome, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrencyLimit)

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := s.convert(req)
			s.observe("convert", err)
			outcomes[i] = domain.ConversionOutcome{Request: req, Result: out, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	info, _ := domain.FromContext(ctx)
	s.logger.Info("conversion batch finished",
		zap.String("batch_id", info.BatchID),
		zap.String("trace_id", info.TraceID),
		zap.Int("total", len(requests)),
		zap.Int("failed", failed))

	return outcomes, nil
}
