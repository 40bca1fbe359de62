package booking

import (
	"context"
	"time"
)

const (
	defaultPollInterval    = 1 * time.Second
	defaultMaxPollInterval = 5 * time.Second
	pollBackoffFactor      = 1.5
)

// WaitForStatus polls a reservation until the backend settles it as success
// or canceled. Retryable failures keep polling; others end the wait.
// The timeout bounds the wait between checks; a check already in flight
// runs to completion under ctx.
func (s *reservationService) WaitForStatus(ctx context.Context, reservationID string, timeout time.Duration) (*Reservation, error) {
	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	interval := s.client.pollInterval
	maxInterval := s.client.maxPollInterval
	logger := s.client.logger()

	var (
		last   *Reservation
		checks int
	)

	timedOut := func() (*Reservation, error) {
		if ctx.Err() != nil {
			return last, ctx.Err()
		}
		if logger != nil {
			logger.Warn("Reservation still pending", "reservation_id", reservationID, "checks", checks)
		}
		return last, ErrReservationTimeout
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-waitCtx.Done():
			return timedOut()

		case <-timer.C:
			reservation, err := s.Get(ctx, reservationID)
			checks++

			if err != nil {
				if ctx.Err() != nil {
					return last, ctx.Err()
				}
				if !IsRetryable(err) {
					return last, err
				}
				if logger != nil {
					logger.Debug("Retrying reservation status check", "reservation_id", reservationID, "error", err)
				}
			} else {
				last = reservation
				if reservation.Status.Settled() {
					if logger != nil {
						logger.Info("Reservation settled", "reservation_id", reservationID, "status", reservation.Status)
					}
					return reservation, nil
				}
			}

			if waitCtx.Err() != nil {
				return timedOut()
			}

			// Back off every third check
			if checks%3 == 0 && interval < maxInterval {
				interval = time.Duration(float64(interval) * pollBackoffFactor)
				if interval > maxInterval {
					interval = maxInterval
				}
			}
			timer.Reset(interval)
		}
	}
}
