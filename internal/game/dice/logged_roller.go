package dice

import "go.uber.org/zap"

// LoggedRoller wraps a Roller so every evaluation shows up in server logs
// at debug level with the expression, kept results, modifiers, and total.
// Game logic that should stay quiet uses Roller directly.
type LoggedRoller struct {
	roller *Roller
	logger *zap.Logger
}

// NewLoggedRoller creates a LoggedRoller drawing from src and logging to
// logger. A nil logger is replaced with a no-op one.
func NewLoggedRoller(src Source, logger *zap.Logger) *LoggedRoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggedRoller{roller: NewRoller(src), logger: logger}
}

// Roll evaluates req and logs the outcome. Rejected expressions are
// logged too, so malformed client input remains visible.
func (lr *LoggedRoller) Roll(req Request) (Result, error) {
	res, err := lr.roller.Roll(req)
	if err != nil {
		lr.logger.Debug("dice roll rejected",
			zap.String("expression", req.Expression),
			zap.Error(err),
		)
		return Result{}, err
	}

	results := make([]int, len(res.Rolls))
	for i, d := range res.Rolls {
		results[i] = d.Result
	}
	lr.logger.Debug("dice roll",
		zap.String("expression", req.Expression),
		zap.Bool("advantage", req.Advantage),
		zap.Bool("disadvantage", req.Disadvantage),
		zap.Ints("results", results),
		zap.Int("total", res.Total),
		zap.String("details", res.Details),
	)
	return res, nil
}
