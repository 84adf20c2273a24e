package service

import (
	"github.com/gigboard/marketplace/internal/core/domain"
	"github.com/gigboard/marketplace/internal/core/ports"
)

type discardSink struct{}

func (discardSink) Emit(domain.ActivityEvent) {}

func sinkOrDiscard(s ports.ActivitySink) ports.ActivitySink {
	if s == nil {
		return discardSink{}
	}
	return s
}
