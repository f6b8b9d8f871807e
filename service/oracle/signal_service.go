package oracle

import (
	"context"
	"fmt"

	"coursemarket/core"
	"coursemarket/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
)

// SignalService grader endpoint client
//
// Relays completion assertions the grader already made; it holds no
// grading logic of its own.
type SignalService struct {
	Config *core.Config
}

// New new oracle signal service
func New(config *core.Config) core.IOracleService {
	return &SignalService{Config: config}
}

// PullSignals pull completion signals after the given cursor
func (s *SignalService) PullSignals(ctx context.Context, offset uint64, limit int) ([]*core.CompletionSignal, error) {
	url := fmt.Sprintf("%s/api/signals?offset=%d&limit=%d", s.Config.Grader.EndPoint, offset, limit)
	logger.FromContext(ctx).Debugln("pull signals:", url)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var signals []*core.CompletionSignal
	if err := resthttp.ParseResponse(resp, &signals); err != nil {
		return nil, err
	}

	for _, signal := range signals {
		signal.ID = 0
		signal.Status = core.SignalStatusPending
	}

	return signals, nil
}
