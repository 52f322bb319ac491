package sim

import (
	"fmt"

	"github.com/san-kum/cardsim/internal/card"
	"go.uber.org/zap"
)

type Quality uint8

const (
	QualityLow Quality = iota
	QualityMedium
	QualityHigh
)

var qualityNames = [...]string{"low", "medium", "high"}

func (q Quality) String() string {
	if int(q) < len(qualityNames) {
		return qualityNames[q]
	}
	return "unknown"
}

func ParseQuality(s string) (Quality, error) {
	for i, n := range qualityNames {
		if n == s {
			return Quality(i), nil
		}
	}
	return 0, fmt.Errorf("sim: unknown quality %q", s)
}

// QualityLevels is the ambient particle population per quality.
type QualityLevels struct {
	Low    int
	Medium int
	High   int
}

func (l QualityLevels) Ambient(q Quality) int {
	switch q {
	case QualityLow:
		return l.Low
	case QualityMedium:
		return l.Medium
	}
	return l.High
}

// SetQuality switches the quality level. Returns false if unchanged.
func (s *Session) SetQuality(q Quality) bool {
	if q > QualityHigh || q == s.quality {
		return false
	}
	s.quality = q
	s.machine.Notify(card.Notification{Kind: card.QualityChanged, Time: s.clock, Name: q.String()})
	s.log.Info("quality changed", zap.Stringer("quality", q))
	return true
}

// ReportFPS feeds the performance monitor. At most once per
// MonitorInterval of simulated time it downgrades quality when the frame
// rate is poor. It never upgrades.
func (s *Session) ReportFPS(fps float64) bool {
	if fps <= 0 || fps != fps {
		return false
	}
	if s.fpsChecked && s.clock-s.lastFPSCheck < s.cfg.MonitorInterval {
		return false
	}
	s.fpsChecked = true
	s.lastFPSCheck = s.clock

	switch {
	case fps < s.cfg.LowFPS && s.quality > QualityLow:
		return s.SetQuality(QualityLow)
	case fps < s.cfg.MediumFPS && s.quality > QualityMedium:
		return s.SetQuality(QualityMedium)
	}
	return false
}
