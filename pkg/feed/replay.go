package feed

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// ReplayStats summarizes a replay
type ReplayStats struct {
	Lines   int
	Frames  int
	Skipped int
}

// ReplayOptions controls replay pacing
type ReplayOptions struct {
	// Speed scales the recorded gaps between frames; 0 replays as fast as
	// possible.
	Speed float64
}

// Replay feeds a JSON-lines recording of Messages into sink. Malformed
// lines are skipped and counted.
func Replay(ctx context.Context, r io.Reader, sink Sink, opts ReplayOptions) (ReplayStats, error) {
	var stats ReplayStats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var prev int64
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Lines++

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var msg Message
		if err := json.Unmarshal(line, &msg); err != nil {
			stats.Skipped++
			continue
		}

		if opts.Speed > 0 && stats.Frames > 0 && msg.TimestampMs > prev {
			gap := time.Duration(float64(msg.TimestampMs-prev)/opts.Speed) * time.Millisecond
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(gap):
			}
		}

		if err := Deliver(msg, sink); err != nil {
			stats.Skipped++
			continue
		}
		prev = msg.TimestampMs
		stats.Frames++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read recording: %w", err)
	}
	return stats, nil
}
