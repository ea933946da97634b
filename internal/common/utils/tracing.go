package utils

import (
	"context"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/rs/zerolog/log"
)

// Span はX-Rayのサブセグメントを包みます。トレース無効時やセグメントが無い場合も安全に呼べます
type Span struct {
	seg    *xray.Segment
	closed bool
}

// StartSpan はサブセグメントを開始します
// 親のセグメントが無い場合は何も記録しない Span を返します
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	if xray.GetSegment(ctx) == nil {
		return ctx, &Span{}
	}
	ctx, seg := xray.BeginSubsegment(ctx, name)
	return ctx, &Span{seg: seg}
}

// AddMetadata はメタデータを追加します。失敗してもログに残すだけです
func (s *Span) AddMetadata(key string, value any) {
	if s == nil || s.seg == nil {
		return
	}
	if err := s.seg.AddMetadata(key, value); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Failed to add metadata")
	}
}

// End はサブセグメントを閉じます。err は失敗として記録されます
// 2回目以降の呼び出しは何もしません
func (s *Span) End(err error) {
	if s == nil || s.seg == nil || s.closed {
		return
	}
	s.closed = true
	s.seg.Close(err)
}
