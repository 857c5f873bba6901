package trace

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cdoepmann/ppcalc-go/pkg/apperr"
	"github.com/cdoepmann/ppcalc-go/pkg/ids"
)

// csvHeader is the fixed column order for trace CSV files (spec §6).
var csvHeader = []string{"m_id", "source_id", "source_timestamp", "destination_id", "destination_timestamp"}

// timestampLayout is a civil date-time with sub-second precision and no
// timezone, matching the wire format spec §6 requires.
const timestampLayout = "2006-01-02T15:04:05.999999999"

// FromCSV reads a headered trace CSV file and adds every row as an entry to
// the builder.
func (b *Builder) FromCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return apperr.NewIOError("open", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)

	if _, err := r.Read(); err != nil {
		return apperr.NewIOError("read header", path, err)
	}

	line := 1
	for {
		line++
		record, err := r.Read()
		if err == nil {
			entry, perr := parseEntry(record)
			if perr != nil {
				return apperr.NewParseError(path, line, perr)
			}
			b.AddEntry(entry)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		return apperr.NewParseError(path, line, err)
	}
	return nil
}

func parseEntry(record []string) (Entry, error) {
	mID, err := strconv.ParseUint(record[0], 10, 64)
	if err != nil {
		return Entry{}, err
	}
	sourceID, err := strconv.ParseUint(record[1], 10, 64)
	if err != nil {
		return Entry{}, err
	}
	sourceTS, err := time.Parse(timestampLayout, record[2])
	if err != nil {
		return Entry{}, err
	}
	destID, err := strconv.ParseUint(record[3], 10, 64)
	if err != nil {
		return Entry{}, err
	}
	destTS, err := time.Parse(timestampLayout, record[4])
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		MessageId:            ids.MessageId(mID),
		SourceId:             ids.SourceId(sourceID),
		SourceTimestamp:      sourceTS,
		DestinationId:        ids.DestinationId(destID),
		DestinationTimestamp: destTS,
	}, nil
}

// WriteToFile serializes every entry to a headered CSV file in message-id
// order, reproducing the exact column order FromCSV expects.
func (t *Trace) WriteToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperr.NewIOError("create", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return apperr.NewIOError("write", path, err)
	}

	record := make([]string, len(csvHeader))
	for _, e := range t.entries {
		record[0] = strconv.FormatUint(uint64(e.MessageId), 10)
		record[1] = strconv.FormatUint(uint64(e.SourceId), 10)
		record[2] = e.SourceTimestamp.Format(timestampLayout)
		record[3] = strconv.FormatUint(uint64(e.DestinationId), 10)
		record[4] = e.DestinationTimestamp.Format(timestampLayout)
		if err := w.Write(record); err != nil {
			return apperr.NewIOError("write", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return apperr.NewIOError("flush", path, err)
	}
	return nil
}
