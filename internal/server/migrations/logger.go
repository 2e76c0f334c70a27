package migrations

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/linkshare/internal/logging"
	"github.com/pressly/goose/v3"
)

// gooseLogger routes goose's printf-style output into a logging.Logger.
type gooseLogger struct {
	l    logging.Logger
	exit func(int)
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.l.Info(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g *gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
	g.exit(1)
}

// SetLogger makes goose log through l.
func SetLogger(l logging.Logger) {
	goose.SetLogger(&gooseLogger{l: l.With("module", "migrations"), exit: os.Exit})
}
