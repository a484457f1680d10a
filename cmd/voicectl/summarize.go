package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/voice-agent/internal/domain/entities"
	"github.com/johnquangdev/voice-agent/internal/infrastructure/external/summarizer"
	"github.com/johnquangdev/voice-agent/internal/usecase/summary"
	pkgai "github.com/johnquangdev/voice-agent/pkg/ai"
	"github.com/johnquangdev/voice-agent/pkg/config"
)

var (
	summarizeMode     string
	summarizeEndpoint string
)

func init() {
	summarizeCmd.Flags().StringVar(&summarizeMode, "mode", "", "http or direct (defaults to SUMMARIZER_MODE)")
	summarizeCmd.Flags().StringVar(&summarizeEndpoint, "endpoint", "", "summarization endpoint URL (http mode)")
	rootCmd.AddCommand(summarizeCmd)
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize <transcript-file>",
	Short: "Summarize a transcript file the way a finished call is summarized",
	Long: `Reads a transcript (one fragment per line, "-" for stdin) and prints the
summary the end-of-call pipeline would store for it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if summarizeMode != "" {
			cfg.Summarizer.Mode = summarizeMode
		}
		if summarizeEndpoint != "" {
			cfg.Summarizer.EndpointURL = summarizeEndpoint
		}

		completer, err := newCompleter(cfg.Summarizer)
		if err != nil {
			return err
		}

		in, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		return runSummarize(cmd.Context(), cmd.OutOrStdout(), summary.NewSummarizer(completer, newLogger()), in)
	},
}

func newCompleter(cfg config.SummarizerConfig) (summary.Completer, error) {
	switch cfg.Mode {
	case "http":
		return summarizer.NewHTTPClient(cfg), nil
	case "direct":
		provider, err := pkgai.NewProvider(cfg)
		if err != nil {
			return nil, err
		}
		return summary.ProviderCompleter{Provider: provider}, nil
	}
	return nil, fmt.Errorf("unknown summarizer mode %q", cfg.Mode)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	return f, nil
}

// readTranscript turns non-empty lines into fragments. Lines of the form
// "speaker: text" keep the speaker as the producer.
func readTranscript(r io.Reader) (entities.Transcript, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	transcript := entities.Transcript{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		producer := ""
		if speaker, text, ok := strings.Cut(line, ":"); ok && !strings.ContainsAny(speaker, " \t") {
			producer, line = speaker, strings.TrimSpace(text)
		}
		transcript = append(transcript, entities.TranscriptFragment{Text: line, Producer: producer, ReceivedAt: time.Now()})
	}
	return transcript, nil
}

func runSummarize(ctx context.Context, out io.Writer, s *summary.Summarizer, in io.Reader) error {
	transcript, err := readTranscript(in)
	if err != nil {
		return err
	}

	result := s.Summarize(ctx, transcript)
	fmt.Fprintf(out, "Source:  %s\n", result.Source)
	fmt.Fprintf(out, "Summary: %s\n", result.Summary)
	return nil
}
