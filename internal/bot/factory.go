package bot

import (
	"fmt"
)

// NewStrategy creates a strategy for the specified level.
func NewStrategy(level Level) (Strategy, error) {
	switch level {
	case LevelStandard:
		return &StandardStrategy{}, nil
	case LevelGreedy:
		return &GreedyStrategy{}, nil
	case LevelCautious:
		return &CautiousStrategy{}, nil
	case LevelMaster:
		return NewMasterStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
