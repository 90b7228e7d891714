package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// Retry runs fn up to maxAttempts times with a fixed delay between attempts.
func Retry(fn func() error, maxAttempts int, delay time.Duration) error {
	for i := 0; i < maxAttempts; i++ {
		if err := fn(); err != nil {
			time.Sleep(delay)
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to execute function after %d attempts", maxAttempts)
}

// RetryWithBackoff runs fn with exponentially growing delays capped at maxDelay.
func RetryWithBackoff(fn func() error, maxAttempts int, initialDelay time.Duration, maxDelay time.Duration) error {
	delay := initialDelay
	for i := 0; i < maxAttempts; i++ {
		if err := fn(); err != nil {
			time.Sleep(delay)
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to execute function after %d attempts", maxAttempts)
}

// RetryWithJitter behaves like RetryWithBackoff with up to a second of random jitter.
func RetryWithJitter(fn func() error, maxAttempts int, initialDelay time.Duration, maxDelay time.Duration) error {
	delay := initialDelay
	for i := 0; i < maxAttempts; i++ {
		if err := fn(); err != nil {
			time.Sleep(delay)
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}
			delay += time.Duration(rand.Intn(1000)) * time.Millisecond
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to execute function after %d attempts", maxAttempts)
}
