package subscription

import (
	"log/slog"
	"time"
)

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithFetchRetry configures the bounded retry around provider snapshot
// fetches. Only transient fetch errors are retried; mutations never are.
func WithFetchRetry(attempts int, interval time.Duration) ServiceOption {
	return func(s *Service) {
		if attempts > 0 {
			s.fetchAttempts = attempts
		}
		if interval > 0 {
			s.retryInterval = interval
		}
	}
}
