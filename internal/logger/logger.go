package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "INFO"
	}
}

type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
}

// Logger writes coloured lines to the terminal and JSON lines to a daily file.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	file     *os.File
	colorOut bool
}

// New opens logs/<service>-YYYY-MM-DD.log under dir. An empty dir disables the file.
func New(dir, service string) (*Logger, error) {
	l := &Logger{out: os.Stdout, colorOut: true}

	if dir == "" {
		return l, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	name := filepath.Join(dir, fmt.Sprintf("%s-%s.log", service, time.Now().Format("2006-01-02")))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = f

	l.Info("LOGGER", "log file: "+name)
	return l, nil
}

// Discard returns a logger that drops everything; used by tests.
func Discard() *Logger {
	return &Logger{out: io.Discard}
}

func (l *Logger) log(level Level, category, message string) {
	_, file, line, ok := runtime.Caller(2)
	if ok {
		file = filepath.Base(file)
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Level:     level.String(),
		Category:  strings.ToUpper(category),
		Message:   message,
		File:      file,
		Line:      line,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprint(l.out, l.terminalLine(entry))

	if l.file != nil {
		if b, err := json.Marshal(entry); err == nil {
			l.file.Write(append(b, '\n'))
		}
	}
}

func (l *Logger) terminalLine(e Entry) string {
	ts := e.Timestamp[11:19]

	if !l.colorOut {
		return fmt.Sprintf("%s %-5s [%-11s] %s (%s:%d)\n", ts, e.Level, e.Category, e.Message, e.File, e.Line)
	}

	var lc *color.Color
	switch e.Level {
	case "DEBUG":
		lc = color.New(color.FgCyan)
	case "WARN":
		lc = color.New(color.FgYellow)
	case "ERROR":
		lc = color.New(color.FgRed, color.Bold)
	default:
		lc = color.New(color.FgGreen)
	}

	return fmt.Sprintf("%s %s %s %s%s\n",
		color.New(color.FgBlue).Sprint(ts),
		lc.Sprintf("%-5s", e.Level),
		lc.Add(color.Bold).Sprintf("[%-11s]", e.Category),
		e.Message,
		color.New(color.FgMagenta).Sprintf(" (%s:%d)", e.File, e.Line),
	)
}

func (l *Logger) Debug(category, message string) { l.log(DEBUG, category, message) }
func (l *Logger) Info(category, message string)  { l.log(INFO, category, message) }
func (l *Logger) Warn(category, message string)  { l.log(WARN, category, message) }
func (l *Logger) Error(category, message string) { l.log(ERROR, category, message) }

func (l *Logger) LogAppointment(action, appointmentID, message string) {
	l.log(INFO, "APPOINTMENT", fmt.Sprintf("[%s] %s - %s", action, appointmentID, message))
}

func (l *Logger) LogPayment(action, appointmentID, message string) {
	l.log(INFO, "PAYMENT", fmt.Sprintf("[%s] %s - %s", action, appointmentID, message))
}

func (l *Logger) LogRequest(kind, requestID, message string) {
	l.log(INFO, "REQUEST", fmt.Sprintf("[%s] %s - %s", kind, requestID, message))
}

func (l *Logger) LogNotify(channel, message string) {
	l.log(INFO, "NOTIFY", fmt.Sprintf("[%s] %s", channel, message))
}

func (l *Logger) LogAPI(method, path string, status int, duration time.Duration) {
	l.log(INFO, "API", fmt.Sprintf("%s %s - %d (%s)", method, path, status, duration))
}

func (l *Logger) Close() {
	if l.file != nil {
		l.file.Close()
	}
}
