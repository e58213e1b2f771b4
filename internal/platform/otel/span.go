package otel

import (
	"sort"

	apperrors "github.com/louisbranch/steamicons/internal/platform/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set by RecordError.
const (
	AttrErrorCode     = "steamicons.error.code"
	AttrErrorCategory = "steamicons.error.category"
	attrErrorMetaPref = "steamicons.error."
)

// RecordError marks span as failed with err. When err carries a coded error,
// its code, category and metadata become span attributes.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	code := apperrors.CodeOf(err)
	if code == apperrors.CodeUnknown {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrErrorCode, string(code)),
		attribute.String(AttrErrorCategory, string(code.Category())),
	}
	meta := apperrors.MetadataOf(err)
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, attribute.String(attrErrorMetaPref+k, meta[k]))
	}
	span.SetAttributes(attrs...)
}
