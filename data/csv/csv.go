// Package csv loads candle series from comma separated files. The
// expected layout per row is unix timestamp, open, high, low, close,
// volume, with an optional header line
package csv

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/meridianquant/backtest/kline"
	"github.com/meridianquant/backtest/log"
)

const columnsPerRow = 6

var (
	// ErrNoFile occurs when no file path has been supplied
	ErrNoFile = errors.New("no file provided")
)

// LoadCandles reads an entire candle series from a CSV file. Rows are
// returned in file order; ordering is validated by the caller before a
// run, not here
func LoadCandles(file string) ([]kline.Kline, error) {
	if file == "" {
		return nil, ErrNoFile
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "could not open candle file")
	}
	defer func() {
		if errClose := f.Close(); errClose != nil {
			log.Errorf(log.Data, "could not close %v: %v", file, errClose)
		}
	}()
	return parseCandles(csv.NewReader(f))
}

func parseCandles(reader *csv.Reader) ([]kline.Kline, error) {
	reader.FieldsPerRecord = columnsPerRow
	var out []kline.Kline
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "row %v", row)
		}
		if row == 1 && isHeader(record[0]) {
			continue
		}
		candle, err := parseCandle(record)
		if err != nil {
			return nil, errors.Wrapf(err, "row %v", row)
		}
		out = append(out, candle)
	}
	if len(out) == 0 {
		return nil, kline.ErrNoCandleData
	}
	return out, nil
}

func parseCandle(record []string) (kline.Kline, error) {
	ts, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return kline.Kline{}, errors.Wrap(err, "timestamp")
	}
	candle := kline.Kline{Time: time.Unix(ts, 0).UTC()}
	fields := []struct {
		name  string
		value string
		dest  *decimal.Decimal
	}{
		{"open", record[1], &candle.Open},
		{"high", record[2], &candle.High},
		{"low", record[3], &candle.Low},
		{"close", record[4], &candle.Close},
		{"volume", record[5], &candle.Volume},
	}
	for i := range fields {
		d, err := decimal.NewFromString(fields[i].value)
		if err != nil {
			return kline.Kline{}, errors.Wrap(err, fields[i].name)
		}
		*fields[i].dest = d
	}
	return candle, nil
}

// isHeader reports whether the first column of the first row is a
// column label rather than a timestamp
func isHeader(first string) bool {
	_, err := strconv.ParseInt(first, 10, 64)
	return err != nil
}
