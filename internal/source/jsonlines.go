package source

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"iter"

	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
)

// JSONLines reads one TickMessage JSON object per line.
type JSONLines struct {
	r io.Reader
}

func NewJSONLines(r io.Reader) *JSONLines {
	return &JSONLines{r: r}
}

// Stream yields a parse error for a malformed line and carries on with
// the next one. It stops at EOF.
func (s *JSONLines) Stream(ctx context.Context) iter.Seq2[types.Tick, error] {
	return func(yield func(types.Tick, error) bool) {
		scanner := bufio.NewScanner(s.r)

		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}

			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var msg types.TickMessage
			if err := json.Unmarshal(line, &msg); err != nil {
				if !yield(types.Tick{}, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "malformed tick message", err)) {
					return
				}

				continue
			}

			if !yield(msg.ToTick(), nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(types.Tick{}, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to read tick messages", err))
		}
	}
}
