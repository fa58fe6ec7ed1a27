// Package database persists and retrieves candle series in a sqlite
// file. Prices are stored as text so values survive a round trip
// without losing precision
package database

import (
	"database/sql"
	"time"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/meridianquant/backtest/kline"
)

// Store wraps a single sqlite connection
type Store struct {
	db *sql.DB
}

// Connect opens the sqlite database at path, creating the candle table
// when absent
func Connect(path string) (*Store, error) {
	if path == "" {
		return nil, ErrNoDatabaseProvided
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open database")
	}
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(createCandleTable); err != nil {
		return nil, errors.Wrap(err, "could not create candle table")
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return ErrNilStore
	}
	return s.db.Close()
}

// InsertCandles saves a candle series for symbol, replacing any rows
// sharing a timestamp
func (s *Store) InsertCandles(symbol string, candles []kline.Kline) error {
	if s == nil || s.db == nil {
		return ErrNilStore
	}
	if symbol == "" {
		return errNoSymbol
	}
	if len(candles) == 0 {
		return errNothingToSave
	}
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "could not begin transaction")
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO candle
		(symbol, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "could not prepare insert")
	}
	defer stmt.Close()
	for i := range candles {
		_, err = stmt.Exec(symbol,
			candles[i].Time.UTC().Format(time.RFC3339),
			candles[i].Open.String(),
			candles[i].High.String(),
			candles[i].Low.String(),
			candles[i].Close.String(),
			candles[i].Volume.String())
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "could not insert candle %v", candles[i].Time)
		}
	}
	return tx.Commit()
}

// Series loads the candles for symbol between start and end inclusive,
// ordered by timestamp
func (s *Store) Series(symbol string, start, end time.Time) ([]kline.Kline, error) {
	if s == nil || s.db == nil {
		return nil, ErrNilStore
	}
	if symbol == "" {
		return nil, errNoSymbol
	}
	if !start.Before(end) {
		return nil, errInvalidRange
	}
	rows, err := s.db.Query(`SELECT timestamp, open, high, low, close, volume
		FROM candle
		WHERE symbol = ? AND timestamp BETWEEN ? AND ?
		ORDER BY timestamp`,
		symbol,
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, errors.Wrap(err, "could not query candles")
	}
	defer rows.Close()

	var out []kline.Kline
	for rows.Next() {
		var ts, open, high, low, closePrice, volume string
		if err = rows.Scan(&ts, &open, &high, &low, &closePrice, &volume); err != nil {
			return nil, errors.Wrap(err, "could not scan candle")
		}
		candle, err := parseCandleRow(ts, open, high, low, closePrice, volume)
		if err != nil {
			return nil, err
		}
		out = append(out, candle)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "could not read candles")
	}
	if len(out) == 0 {
		return nil, kline.ErrNoCandleData
	}
	return out, nil
}

func parseCandleRow(ts, open, high, low, closePrice, volume string) (kline.Kline, error) {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return kline.Kline{}, errors.Wrap(err, "timestamp")
	}
	candle := kline.Kline{Time: parsed}
	fields := []struct {
		name  string
		value string
		dest  *decimal.Decimal
	}{
		{"open", open, &candle.Open},
		{"high", high, &candle.High},
		{"low", low, &candle.Low},
		{"close", closePrice, &candle.Close},
		{"volume", volume, &candle.Volume},
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
