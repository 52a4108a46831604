package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var ErrNoWriters = errors.New("no log writers configured")

// Format is the encoding of log lines.
type Format int

const (
	FormatJSON Format = iota
	FormatConsole
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "console"
}

// ParseFormat maps "json" to FormatJSON and anything else to FormatConsole.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatConsole
}

// ParseLevel is zerolog.ParseLevel with case folding and an info default.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Config describes where and how spendlog logs.
type Config struct {
	Level      zerolog.Level
	Format     Format
	Console    io.Writer // nil disables console output
	FilePath   string    // empty disables file output
	MaxSizeMB  int
	MaxBackups int
}

func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     FormatConsole,
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

// Builder assembles a zerolog.Logger from console and rotating file writers.
type Builder struct {
	cfg Config
}

func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

func (b *Builder) WithLevel(level zerolog.Level) *Builder {
	b.cfg.Level = level
	return b
}

func (b *Builder) WithConsole(w io.Writer) *Builder {
	b.cfg.Console = w
	return b
}

func (b *Builder) WithFile(path string) *Builder {
	b.cfg.FilePath = path
	return b
}

func (b *Builder) Build() (zerolog.Logger, error) {
	if b.cfg.FilePath != "" && b.cfg.MaxSizeMB <= 0 {
		return zerolog.Nop(), fmt.Errorf("max size must be positive, got %d", b.cfg.MaxSizeMB)
	}

	var writers []io.Writer
	if b.cfg.Console != nil {
		writers = append(writers, b.consoleWriter(b.cfg.Console, false))
	}
	if b.cfg.FilePath != "" {
		w, err := b.fileWriter()
		if err != nil {
			return zerolog.Nop(), err
		}
		writers = append(writers, w)
	}
	if len(writers) == 0 {
		return zerolog.Nop(), ErrNoWriters
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(b.cfg.Level).
		With().
		Timestamp().
		Logger(), nil
}

func (b *Builder) consoleWriter(out io.Writer, noColor bool) io.Writer {
	if b.cfg.Format == FormatJSON {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, NoColor: noColor, TimeFormat: time.TimeOnly}
}

func (b *Builder) fileWriter() (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(b.cfg.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	rotating := &lumberjack.Logger{
		Filename:   b.cfg.FilePath,
		MaxSize:    b.cfg.MaxSizeMB,
		MaxBackups: b.cfg.MaxBackups,
		LocalTime:  true,
	}
	return b.consoleWriter(rotating, true), nil
}

// New builds a logger from cfg.
func New(cfg Config) (zerolog.Logger, error) {
	return NewBuilder().WithConfig(cfg).Build()
}
