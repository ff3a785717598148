package console

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	warningPrefixConstant = "WARN: "
	errorPrefixConstant   = "ERROR: "
	fatalPrefixConstant   = "FATAL ERROR: "
	lineTemplateConstant  = "%s%s\n%s"
)

// Printer writes colored diagnostics to a destination writer.
type Printer struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewPrinter constructs a Printer writing to the provided destination. A nil writer selects standard output.
func NewPrinter(writer io.Writer) *Printer {
	if writer == nil {
		writer = os.Stdout
	}
	return &Printer{writer: writer}
}

// PrintColor writes message followed by a newline, wrapped in the color start and reset sequences.
func (printer *Printer) PrintColor(message string, color Color) {
	if printer == nil {
		return
	}
	printer.mutex.Lock()
	defer printer.mutex.Unlock()
	fmt.Fprintf(printer.writer, lineTemplateConstant, color.StartSequence(), message, ResetSequence())
}

// Print writes message followed by a newline without color sequences.
func (printer *Printer) Print(message string) {
	if printer == nil {
		return
	}
	printer.mutex.Lock()
	defer printer.mutex.Unlock()
	fmt.Fprintln(printer.writer, message)
}

// Ok writes a success message in green.
func (printer *Printer) Ok(message string) {
	printer.PrintColor(message, ColorGreen)
}

// Warn writes a warning message in yellow.
func (printer *Printer) Warn(message string) {
	printer.PrintColor(warningPrefixConstant+message, ColorYellow)
}

// Error writes an error message in red.
func (printer *Printer) Error(message string) {
	printer.PrintColor(errorPrefixConstant+message, ColorRed)
}

// Fatal writes a fatal message in red and returns the FatalError the caller must propagate.
func (printer *Printer) Fatal(message string) *FatalError {
	printer.PrintColor(fatalPrefixConstant+message, ColorRed)
	return NewFatalError(message)
}
