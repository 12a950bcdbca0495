// Основной пакет утилиты blockdoc. Отвечает за импорт HTML документа в блочную модель, вывод предупреждений распознавания и экспорт результата обратно в HTML (полный документ, фрагмент или минифицированный вид) либо в PDF.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/config"
	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor"
	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/export"
	stack_error "github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/stack-error"
)

var version string = "DEV"

// Пример запуска: go run main.go -in form.html -out form.pdf -pdf -trace
func main() {
	in := flag.String("in", "", "Input HTML file (default stdin)")
	out := flag.String("out", "", "Output file (default stdout)")
	fragment := flag.Bool("fragment", false, "Emit body fragment instead of full document")
	minifyOut := flag.Bool("minify", false, "Minify HTML output")
	pdfOut := flag.Bool("pdf", false, "Emit PDF instead of HTML")
	trace := flag.Bool("trace", false, "Verbose logs")
	flag.Parse()

	if *trace {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Set prod log format
	if version != "DEV" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{})))
	}

	cfg := config.ReadConfig()
	editor.SizeWarnThreshold = cfg.ExportWarnSize

	raw, err := readInput(*in)
	if err != nil {
		slog.Error("Fail read input", "err", err)
		os.Exit(1)
	}

	res, err := editor.Parse(string(raw))
	if err != nil {
		stack_error.LogError(stack_error.TrackErrorStack(err).AddContext("in", *in))
		os.Exit(1)
	}

	for _, warn := range res.Warnings {
		slog.Warn("Import warning", "kind", warn.Kind, "detail", warn.Detail)
	}
	if n := editor.PreservedRawCount(res.Warnings); n > 0 {
		slog.Warn("Import kept unrecognized elements as raw html", "count", n)
	}
	slog.Debug("Import done", "sections", len(res.Sections), "native", res.IsNativeFormat)

	doc := res.Document()

	var output []byte
	var exportWarns []editor.Warning
	switch {
	case *pdfOut:
		w, err := openOutput(*out)
		if err != nil {
			slog.Error("Fail open output", "err", err)
			os.Exit(1)
		}
		defer w.Close()
		if err := export.DocumentToFPDF(doc, w); err != nil {
			stack_error.LogError(stack_error.TrackErrorStack(err).AddContext("out", *out))
			os.Exit(1)
		}
		return
	case *fragment:
		html, warns := editor.SerializeBody(doc)
		output, exportWarns = []byte(html), warns
	case *minifyOut || cfg.ExportMinify:
		html, warns, err := editor.SerializeMinified(doc)
		if err != nil {
			stack_error.LogError(stack_error.TrackErrorStack(err))
			os.Exit(1)
		}
		output, exportWarns = []byte(html), warns
	default:
		html, warns := editor.Serialize(doc)
		output, exportWarns = []byte(html), warns
	}

	for _, warn := range exportWarns {
		slog.Warn("Export warning", "kind", warn.Kind, "detail", warn.Detail)
	}

	if err := writeOutput(*out, output); err != nil {
		slog.Error("Fail write output", "err", err)
		os.Exit(1)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return os.Stdout, nil
	}
	return os.Create(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := fmt.Fprint(os.Stdout, string(data))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
