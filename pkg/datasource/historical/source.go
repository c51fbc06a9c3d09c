package historical

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unsafe"

	"golang.org/x/exp/mmap"
)

var ErrEof = errors.New("EOF")

// BinaryBar is the fixed-size on-disk record of one daily bar. Files hold
// one instrument each, records sorted by timestamp.
type BinaryBar struct {
	TimeStamp int64
	Open      float64
	Close     float64
	Vwap      float64
	Amount    float64
}

var barSize = int64(unsafe.Sizeof(BinaryBar{}))

// Source reads BinaryBar records from a memory-mapped file.
type Source struct {
	dataSourceName string
	reader         *mmap.ReaderAt
}

func NewSource(dataSourceName string) *Source {
	return &Source{
		dataSourceName: dataSourceName,
	}
}

func (s *Source) Open() error {
	var err error
	s.reader, err = mmap.Open(s.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to open data source %q: %w", s.dataSourceName, err)
	}
	return nil
}

func (s *Source) Close() {
	_ = s.reader.Close()
}

func (s *Source) Read(index int64, bar *BinaryBar) error {
	buffer := make([]byte, barSize)

	n, err := s.reader.ReadAt(buffer, index*barSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("unable to read: %w", err)
	}
	if int64(n) < barSize {
		return ErrEof
	}

	*bar = *(*BinaryBar)(unsafe.Pointer(&buffer[0])) // #nosec G103
	return nil
}

func (s *Source) EntryCount() (int64, error) {
	fileInfo, err := os.Stat(s.dataSourceName)
	if err != nil {
		return 0, fmt.Errorf("unable to get data source %q stats: %w", s.dataSourceName, err)
	}

	totalSize := fileInfo.Size()
	if totalSize%barSize != 0 {
		return 0, fmt.Errorf("file size is not a multiple of bar size")
	}

	return totalSize / barSize, nil
}
