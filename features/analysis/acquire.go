package analysis

import (
	"context"
	"log/slog"
	"sync"
)

// acquirer runs the stage-1 fan-out shared by both pipeline variants:
// transcript, comments and statistics launched together, joined at a
// barrier. Acquisition errors are data here, not faults: a failed
// branch logs and leaves its slot nil for the post-join validation.
type acquirer struct {
	video       VideoSource
	transcripts TranscriptSource
}

func (a *acquirer) acquire(ctx context.Context, videoID string) *RawVideoData {
	var raw RawVideoData
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		chunks, err := a.transcripts.FetchChunks(ctx, videoID)
		if err != nil {
			slog.WarnContext(ctx, "transcript acquisition failed", "error", err, "video_id", videoID)
			return
		}
		raw.Transcript = chunks
	}()
	go func() {
		defer wg.Done()
		comments, err := a.video.FetchComments(ctx, videoID)
		if err != nil {
			slog.WarnContext(ctx, "comment acquisition failed", "error", err, "video_id", videoID)
			return
		}
		raw.Comments = comments
	}()
	go func() {
		defer wg.Done()
		counters, err := a.video.FetchStats(ctx, videoID)
		if err != nil {
			slog.WarnContext(ctx, "stats acquisition failed", "error", err, "video_id", videoID)
			return
		}
		raw.Stats = counters
	}()
	wg.Wait()

	return &raw
}
