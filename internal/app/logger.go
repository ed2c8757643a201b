package app

import (
	"io"
	"log/slog"

	"github.com/specialistvlad/residencygrid/internal/config"
)

// newLogger builds an isolated logger writing to w. Unknown levels fall
// back to info; any format other than json is text.
func newLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == config.FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
