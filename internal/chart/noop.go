package chart

import (
	"io"

	"CoinMonitor/internal/model"
)

// NoopBackend is used when chart output is disabled; requests degrade to an
// informational notice instead of producing an image.
type NoopBackend struct{}

func NewNoopBackend() *NoopBackend { return &NoopBackend{} }

func (n *NoopBackend) Available() bool { return false }

func (n *NoopBackend) Render(_ io.Writer, _ model.RecordSet) error { return nil }
