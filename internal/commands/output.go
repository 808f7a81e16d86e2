package commands

import (
	"fmt"
	"io"

	"github.com/colonyops/cardwallet/internal/core/styles"
)

// printer writes styled status lines for the non-interactive commands.
type printer struct {
	w io.Writer
}

func (p printer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, styles.TextSuccessStyle.Render("✔ ")+fmt.Sprintf(format, args...))
}

func (p printer) Infof(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, styles.TextPrimaryStyle.Render("• ")+fmt.Sprintf(format, args...))
}

func (p printer) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, styles.TextWarningStyle.Render("! ")+fmt.Sprintf(format, args...))
}

func (p printer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, styles.TextErrorStyle.Render("✘ ")+fmt.Sprintf(format, args...))
}

func (p printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}
