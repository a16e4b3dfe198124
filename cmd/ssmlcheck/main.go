// Command ssmlcheck parses SSML documents and reports what a synthesiser
// would see: the extracted text, the tag table, the event log, or the
// re-serialised markup. It exits non-zero on the first invalid document.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	ssml "github.com/emotechlab/ssml-parser"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		showText   = flag.Bool("text", false, "print the extracted text")
		showTags   = flag.Bool("tags", false, "print the tag table with spans")
		showEvents = flag.Bool("events", false, "print the event log")
		rewrite    = flag.Bool("rewrite", false, "print the re-serialised markup")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [file ...]\n\nReads SSML from the given files, or stdin when none are given.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	failed := false
	for _, path := range paths {
		if err := check(path, *showText, *showTags, *showEvents, *rewrite); err != nil {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func check(path string, showText, showTags, showEvents, rewrite bool) error {
	src, err := read(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("cannot read input")
		return err
	}
	doc, err := ssml.Parse(src)
	if err != nil {
		ev := log.Error().Str("file", path)
		if pe, ok := err.(*ssml.ParseError); ok {
			ev = ev.Str("kind", string(pe.Kind)).Int("offset", pe.Offset).Int("pos", pe.Pos)
		}
		ev.Msg(err.Error())
		return err
	}
	log.Info().Str("file", path).Int("tags", len(doc.Tags())).Int("chars", len([]rune(doc.Text()))).Msg("valid")

	if showText {
		fmt.Println(doc.Text())
	}
	if showTags {
		for _, tag := range doc.Tags() {
			fmt.Printf("%-12s %5d..%-5d %q\n", tag.Kind, tag.Span.Start, tag.Span.End, doc.SpanText(tag.Span))
		}
	}
	if showEvents {
		for e := range doc.Events() {
			switch e.Kind {
			case ssml.TextRun:
				fmt.Printf("%-5s %5d..%-5d %q\n", e.Kind, e.Span.Start, e.Span.End, e.Text)
			default:
				fmt.Printf("%-5s %5d..%-5d <%s>\n", e.Kind, e.Tag.Span.Start, e.Tag.Span.End, e.Tag.Kind)
			}
		}
	}
	if rewrite {
		fmt.Println(doc.WriteSSML())
	}
	return nil
}

func read(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
