package logger

import (
	"fmt"
	"os"
	"sync"
)

// NewLogFile opens filename for appending. The file is reopened before a
// write when filename no longer names it, so log files can be removed or
// rotated while the application runs.
func NewLogFile(filename string) (*LogFile, error) {
	self := &LogFile{filename: filename}
	if err := self.open(); err != nil {
		return nil, err
	}
	return self, nil
}

type LogFile struct {
	filename string

	mu sync.Mutex
	f  *os.File
}

func (self *LogFile) open() error {
	f, err := os.OpenFile(self.filename,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	self.f = f
	return nil
}

func (self *LogFile) Write(p []byte) (int, error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	if !self.current() {
		if err := self.reopen(); err != nil {
			return 0, fmt.Errorf("reopen file %q: %w", self.filename, err)
		}
	}

	n, err := self.f.Write(p)
	if err != nil {
		return n, fmt.Errorf("write to %q: %w", self.filename, err)
	}
	return n, nil
}

// current reports whether filename still points to the open file.
func (self *LogFile) current() bool {
	opened, err := self.f.Stat()
	if err != nil {
		return false
	}
	named, err := os.Stat(self.filename)
	if err != nil {
		return false
	}
	return os.SameFile(opened, named)
}

func (self *LogFile) reopen() error {
	old := self.f
	if err := self.open(); err != nil {
		return err
	}
	_ = old.Close()
	return nil
}

func (self *LogFile) Close() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.f.Close()
}
