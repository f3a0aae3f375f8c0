package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// slogAdapter routes goose's Printf-style logging through slog.
type slogAdapter struct {
	ctx context.Context
	log *slog.Logger
}

var _ goose.Logger = (*slogAdapter)(nil)

func (a *slogAdapter) Fatalf(format string, v ...any) {
	a.log.ErrorContext(a.ctx, fmt.Sprintf(format, v...))
}

func (a *slogAdapter) Printf(format string, v ...any) {
	a.log.InfoContext(a.ctx, fmt.Sprintf(format, v...))
}
