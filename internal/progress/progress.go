package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// Bar renders hashing progress on one terminal line. All methods are safe
// for concurrent use.
type Bar struct {
	mu          sync.Mutex
	total       int64
	current     int64
	totalBytes  int64
	doneBytes   int64
	width       int
	writer      io.Writer
	currentDirs map[string]bool
	enabled     bool
	lastUpdate  time.Time
}

// New returns a bar writing to stderr, enabled only when stderr is a
// terminal.
func New(total, totalBytes int64) *Bar {
	return NewWriter(os.Stderr, total, totalBytes, term.IsTerminal(int(os.Stderr.Fd())))
}

// NewWriter returns a bar writing to w.
func NewWriter(w io.Writer, total, totalBytes int64, enabled bool) *Bar {
	return &Bar{
		total:       total,
		totalBytes:  totalBytes,
		width:       40,
		writer:      w,
		currentDirs: make(map[string]bool),
		enabled:     enabled,
		lastUpdate:  time.Now(),
	}
}

func (b *Bar) SetDirectory(dir string) {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.currentDirs[dir] = true
}

// Add records one finished file of the given size.
func (b *Bar) Add(size int64) {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++
	b.doneBytes += size

	// Update at most every 100ms to reduce flickering
	now := time.Now()
	if now.Sub(b.lastUpdate) > 100*time.Millisecond || b.current == b.total {
		b.lastUpdate = now
		b.render()
	}
}

// render must be called with mu already locked
func (b *Bar) render() {
	if b.total == 0 {
		return
	}

	filledWidth := int(float64(b.width) * float64(b.current) / float64(b.total))
	if filledWidth > b.width {
		filledWidth = b.width
	}
	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", b.width-filledWidth)

	dirs := make([]string, 0, len(b.currentDirs))
	for dir := range b.currentDirs {
		dirs = append(dirs, filepath.Base(dir))
	}
	sort.Strings(dirs)

	var dirDisplay string
	if len(dirs) > 0 {
		if len(dirs) > 3 {
			dirDisplay = fmt.Sprintf(" | %s, %s, %s +%d more", dirs[0], dirs[1], dirs[2], len(dirs)-3)
		} else {
			dirDisplay = " | " + strings.Join(dirs, ", ")
		}
	}
	b.currentDirs = make(map[string]bool)

	// Clear the line and write progress
	fmt.Fprintf(b.writer, "\r\033[K[%s] %d/%d files, %s/%s%s",
		bar, b.current, b.total,
		humanize.Bytes(uint64(b.doneBytes)), humanize.Bytes(uint64(b.totalBytes)),
		dirDisplay)
}

func (b *Bar) Finish() {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = b.total
	b.doneBytes = b.totalBytes
	b.render()
	fmt.Fprintf(b.writer, "\n")
}
