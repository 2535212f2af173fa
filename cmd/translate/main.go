// Command translate sends one text through a running translation proxy.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/xpanvictor/linguavox/internal/config"
	"github.com/xpanvictor/linguavox/internal/domains/translation"
	"github.com/xpanvictor/linguavox/pkg/Logger"
	"github.com/xpanvictor/linguavox/pkg/io/translate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	os.Exit(run(cfg, os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code so deferred cleanup happens before exit.
func run(cfg *config.Settings, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	text := fs.String("text", "ciao mondo", "text to translate")
	from := fs.String("from", string(translation.Italian), "source language")
	to := fs.String("to", string(translation.Greek), "target language")
	tone := fs.String("tone", string(translation.Formal), "tone of the translation")
	proxy := fs.String("proxy", cfg.Translation.ProxyURL, "base URL of the translation proxy")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := Logger.New(cfg.Debug)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res := translate.New(*proxy, nil, logger).Translate(ctx, translation.Request{
		Text:           *text,
		SourceLanguage: translation.Language(*from),
		TargetLanguage: translation.Language(*to),
		Tone:           translation.Tone(*tone),
	})
	if !res.OK() {
		fmt.Fprintf(stderr, "%s (%s)\n", res.Display(), res.Failure)
		return 1
	}
	fmt.Fprintln(stdout, res.Text)
	return 0
}
