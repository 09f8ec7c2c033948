// Package stats turns raw engagement counters into benchmarked ratios.
// Everything here is pure and synchronous; the pipeline computes it
// inline while the agent branches are in flight.
package stats

import (
	"fmt"
	"strconv"
)

// Counters holds the raw engagement numbers as the video platform
// reports them: decimal strings, possibly empty when a counter is
// hidden for the video.
type Counters struct {
	Views    string `json:"views"`
	Likes    string `json:"likes"`
	Comments string `json:"comments"`
}

type Summary struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`

	LikePercentage          string `json:"likePercentage"`
	LikePercentageBenchmark string `json:"likePercentageBenchmark"`

	CommentPercentage          string `json:"commentPercentage"`
	CommentPercentageBenchmark string `json:"commentPercentageBenchmark"`

	Reach string `json:"reach"`
}

// Summarize benchmarks the counters against typical long-form engagement
// rates. Unparseable or empty counters count as zero.
func Summarize(c Counters) Summary {
	views := parseCount(c.Views)
	likes := parseCount(c.Likes)
	comments := parseCount(c.Comments)

	var likePct, commentPct float64
	if views > 0 {
		likePct = float64(likes) / float64(views) * 100
		commentPct = float64(comments) / float64(views) * 100
	}

	s := Summary{
		Views:             views,
		Likes:             likes,
		Comments:          comments,
		LikePercentage:    fmt.Sprintf("%.2f", likePct),
		CommentPercentage: fmt.Sprintf("%.2f", commentPct),
	}

	if likePct > 5 {
		s.LikePercentageBenchmark = "above average (typical: 3-5%)"
	} else {
		s.LikePercentageBenchmark = "average or below"
	}

	if commentPct > 0.2 {
		s.CommentPercentageBenchmark = "high engagement (typical: 0.1-0.2%)"
	} else {
		s.CommentPercentageBenchmark = "average engagement"
	}

	switch {
	case views < 10_000:
		s.Reach = "small"
	case views < 100_000:
		s.Reach = "mid-tier"
	default:
		s.Reach = "large"
	}

	return s
}

// String renders a compact prompt-ready form.
func (s Summary) String() string {
	return fmt.Sprintf(
		"views=%d likes=%d comments=%d like%%=%s (%s) comment%%=%s (%s) reach=%s",
		s.Views, s.Likes, s.Comments,
		s.LikePercentage, s.LikePercentageBenchmark,
		s.CommentPercentage, s.CommentPercentageBenchmark,
		s.Reach,
	)
}

func parseCount(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
