package limiter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// A Limiter paces requests to an upstream service. The next-allowed-at time
// is persisted to a file so that a Retry-After from the upstream survives a
// process restart.
func New(filename string, delay time.Duration) *Limiter {
	return &Limiter{
		filename: filename,
		delay:    delay,
	}
}

type Limiter struct {
	filename string
	delay    time.Duration
	nextAt   time.Time
}

// Load reads a persisted next-allowed-at time, if one exists.
func (lim *Limiter) Load() error {
	if _, err := os.Stat(lim.filename); errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("error statting file: %w", err)
	}

	bs, err := os.ReadFile(lim.filename)
	if err != nil {
		return err
	}

	lim.nextAt, err = time.Parse(time.UnixDate, string(bs))
	if err != nil {
		return err
	}

	return nil
}

// Wait blocks until the next request is allowed, or the context ends.
func (lim *Limiter) Wait(ctx context.Context) error {
	if !lim.nextAt.IsZero() {
		now := time.Now()
		dur := lim.nextAt.Sub(now)
		if dur > time.Second {
			log.Printf("waiting %s until %s",
				dur.Truncate(time.Second),
				lim.nextAt.Format(time.StampMilli))
		}

	wait:
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			break wait
		}

		if err := os.Remove(lim.filename); err != nil &&
			!errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	return nil
}

// Backoff records an upstream Retry-After value, given in whole seconds. An
// empty value backs off for a minute.
func (lim *Limiter) Backoff(secondsStr string) error {
	if secondsStr == "" {
		secondsStr = "60"
	}
	seconds, err := strconv.ParseInt(secondsStr, 10, 64)
	if err != nil {
		return err
	}
	waitTime := time.Duration(seconds)*time.Second + time.Second
	lim.nextAt = time.Now().Add(waitTime)
	if err := os.WriteFile(lim.filename, []byte(lim.nextAt.Format(time.UnixDate)), 0666); err != nil {
		return err
	}
	return nil
}

// Delay spaces the next request out by the limiter's base delay.
func (lim *Limiter) Delay() {
	lim.nextAt = time.Now().Add(lim.delay)
}
