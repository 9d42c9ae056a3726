package service

import (
	"context"
	"log"
	"time"
)

const (
	PathHome      = "/"
	PathChurches  = "/churches"
	PathFeedbacks = "/feedbacks"
	PathAdmin     = "/admin"

	revalidateAttempts = 3
)

var revalidateBackoff = 100 * time.Millisecond

// Revalidator marks rendered views as stale after a write.
type Revalidator interface {
	Revalidate(ctx context.Context, paths ...string) error
}

// ParishPath is the public detail page for slug.
func ParishPath(slug string) string {
	return PathChurches + "/" + slug
}

// revalidate runs after a committed write and retries until the signal is
// delivered or the attempts run out. The write is never rolled back.
func revalidate(ctx context.Context, r Revalidator, paths ...string) {
	if r == nil || len(paths) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)
	paths = uniquePaths(paths)

	var err error
	for attempt := 1; attempt <= revalidateAttempts; attempt++ {
		if err = r.Revalidate(ctx, paths...); err == nil {
			return
		}
		if attempt < revalidateAttempts {
			time.Sleep(time.Duration(attempt) * revalidateBackoff)
		}
	}

	log.Printf("revalidate %v failed after %d attempts: %v", paths, revalidateAttempts, err)
}

func uniquePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	result := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		result = append(result, path)
	}
	return result
}
