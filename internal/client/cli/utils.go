package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sachwave/sachwave/internal/client/cache"
	"github.com/sachwave/sachwave/internal/common"
)

// toast prints a one-line, non-fatal failure the way a toast would: the
// operation stays retryable, nothing else is torn down.
func toast(err error) {
	fmt.Println("!", userMessage(err))
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, cache.ErrActorUnavailable):
		return "Still connecting to the server — try again in a moment."
	case errors.Is(err, common.ErrBanned):
		return "Your account is suspended."
	case errors.Is(err, common.ErrNotAdmin):
		return "Admins only."
	case errors.Is(err, common.ErrAlreadyLiked):
		return "You already liked that."
	case errors.Is(err, common.ErrUnauthorized):
		return "You need to sign in for that."
	case errors.Is(err, common.ErrNotFound):
		return "That doesn't exist (anymore)."
	case errors.Is(err, common.ErrValidation):
		return err.Error()
	case errors.Is(err, common.ErrUnavailable):
		return "The server is unreachable right now — try again."
	default:
		return "Something went wrong. Please try again."
	}
}

// parseID reads a numeric id from command args.
func parseID(args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		fmt.Println("Usage:", usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Usage:", usage)
		return 0, false
	}
	return id, true
}

// formatWhen renders a unix-millisecond timestamp compactly: clock time for
// today, date otherwise.
func formatWhen(unixMilli int64) string {
	ts := time.UnixMilli(unixMilli)
	now := time.Now()
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		return ts.Format("15:04")
	}
	return ts.Format("Jan 2")
}
