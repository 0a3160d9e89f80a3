package systemservice

import (
	"context"
	"math"
	"time"

	systemstruct "github.com/Gamequic/DigCardBackend/pkg/features/system/struct"

	"github.com/shirou/gopsutil/mem"
	"go.uber.org/zap"
)

// Pinger reports whether the profile store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Service struct {
	store   Pinger
	started time.Time
	logger  *zap.Logger
}

func NewService(store Pinger, logger *zap.Logger) *Service {
	return &Service{store: store, started: time.Now(), logger: logger}
}

// Health pings the store and samples host memory. The bool is false when the
// store did not answer.
func (s *Service) Health(ctx context.Context) (systemstruct.Health, bool) {
	health := systemstruct.Health{
		Status: "ok",
		Store:  "up",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	}

	if memStats, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		s.logger.Warn("Could not read memory stats", zap.Error(err))
	} else {
		health.MemoryUsedPercent = math.Round(memStats.UsedPercent*100) / 100
	}

	if err := s.store.Ping(ctx); err != nil {
		health.Status = "degraded"
		health.Store = "down"
		health.StoreError = err.Error()
		return health, false
	}
	return health, true
}
