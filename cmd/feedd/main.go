// Command feedd replays a venue message file through the matching engine,
// printing book depth as the feed progresses and an error summary at the
// end.
//
//	feedd [-config feedd.yaml] <path/to/messages/file | ->
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	tomb "gopkg.in/tomb.v2"

	"tern/domain/book"
	"tern/feed"
	"tern/infra/checkpoint"
	"tern/infra/journal"
	"tern/infra/outbox"
	"tern/infra/sequence"
	"tern/jobs/broadcaster"
	"tern/service"
)

func main() {
	configFile := flag.String("config", "", "optional yaml config file")
	flag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "[USAGE]: feedd [-config feedd.yaml] <path/to/messages/file | ->")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	in, err := openInput(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Str("path", flag.Arg(0)).Msg("cannot open messages file")
	}
	defer in.Close()

	if err := run(log, cfg, in, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("feedd failed")
	}
}

type config struct {
	Depth           int
	PrintEvery      int
	CheckpointEvery int

	JournalEnabled bool
	JournalDir     string
	SegmentSize    int64

	OutboxEnabled bool
	OutboxDir     string

	KafkaEnabled  bool
	KafkaBrokers  []string
	KafkaTopic    string
	KafkaInterval string

	CheckpointDir string
}

func loadConfig(path string) (config, error) {
	v := viper.New()
	v.SetDefault("depth", 5)
	v.SetDefault("print_every", 10)
	v.SetDefault("checkpoint_every", 0)
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.dir", "./journal")
	v.SetDefault("journal.segment_size", 2*1024*1024)
	v.SetDefault("outbox.enabled", false)
	v.SetDefault("outbox.dir", "./outbox")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "trade-prints")
	v.SetDefault("kafka.interval", "250ms")
	v.SetDefault("checkpoint.dir", "./checkpoints")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config{}, err
		}
	}

	return config{
		Depth:           v.GetInt("depth"),
		PrintEvery:      v.GetInt("print_every"),
		CheckpointEvery: v.GetInt("checkpoint_every"),
		JournalEnabled:  v.GetBool("journal.enabled"),
		JournalDir:      v.GetString("journal.dir"),
		SegmentSize:     v.GetInt64("journal.segment_size"),
		OutboxEnabled:   v.GetBool("outbox.enabled"),
		OutboxDir:       v.GetString("outbox.dir"),
		KafkaEnabled:    v.GetBool("kafka.enabled"),
		KafkaBrokers:    v.GetStringSlice("kafka.brokers"),
		KafkaTopic:      v.GetString("kafka.topic"),
		KafkaInterval:   v.GetString("kafka.interval"),
		CheckpointDir:   v.GetString("checkpoint.dir"),
	}, nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func run(log zerolog.Logger, cfg config, in io.Reader, out io.Writer) error {
	eng := book.NewEngine()
	seqGen := sequence.New(0)

	var wal *journal.Journal
	if cfg.JournalEnabled {
		var err error
		wal, err = journal.Open(journal.Config{Dir: cfg.JournalDir, SegmentSize: cfg.SegmentSize})
		if err != nil {
			return fmt.Errorf("journal open: %w", err)
		}
		defer wal.Close()
	}

	var box *outbox.Outbox
	if cfg.OutboxEnabled {
		var err error
		box, err = outbox.Open(cfg.OutboxDir)
		if err != nil {
			return fmt.Errorf("outbox open: %w", err)
		}
		defer box.Close()
	}

	// Rebuild state: checkpoint first, then the journal tail above it.
	var afterSeq uint64
	if cfg.JournalEnabled {
		var err error
		afterSeq, err = checkpoint.Load(cfg.CheckpointDir, eng)
		if err != nil {
			return fmt.Errorf("checkpoint load: %w", err)
		}
		if err := service.Replay(log, cfg.JournalDir, eng, seqGen, afterSeq); err != nil {
			return fmt.Errorf("journal replay: %w", err)
		}
	}

	svc := service.New(log, eng, seqGen, wal, box)

	var t tomb.Tomb
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-t.Dying()
		cancel()
	}()

	if cfg.KafkaEnabled && box != nil {
		interval, err := time.ParseDuration(cfg.KafkaInterval)
		if err != nil {
			return fmt.Errorf("kafka interval: %w", err)
		}
		bc, err := broadcaster.New(log, box, cfg.KafkaBrokers, cfg.KafkaTopic, interval)
		if err != nil {
			return fmt.Errorf("broadcaster init: %w", err)
		}
		defer bc.Close()
		t.Go(func() error {
			bc.Run(ctx)
			return nil
		})
	}

	dec := feed.NewDecoder(in)
	msgCount := 0
	for {
		ev, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var derr *feed.DecodeError
			if errors.As(err, &derr) {
				svc.Reject(derr.Code)
				log.Warn().Int("line", derr.Line).Stringer("result", derr.Code).Msg("rejected message")
				continue
			}
			t.Kill(nil)
			_ = t.Wait()
			return fmt.Errorf("feed read: %w", err)
		}

		svc.Notify(ev)
		msgCount++
		if cfg.PrintEvery > 0 && msgCount%cfg.PrintEvery == 0 {
			if err := eng.Depth(out, cfg.Depth, true); err != nil {
				log.Error().Err(err).Msg("depth print failed")
			}
		}
		if cfg.CheckpointEvery > 0 && msgCount%cfg.CheckpointEvery == 0 {
			if err := svc.Checkpoint(cfg.CheckpointDir); err != nil {
				log.Error().Err(err).Msg("checkpoint failed")
			}
		}
	}

	t.Kill(nil)
	_ = t.Wait()

	if cfg.JournalEnabled {
		if err := svc.Checkpoint(cfg.CheckpointDir); err != nil {
			log.Error().Err(err).Msg("final checkpoint failed")
		}
	}

	fmt.Fprintln(out)
	svc.ReportErrors(out)
	return nil
}
