package database

import "errors"

var (
	// ErrNoDatabaseProvided occurs when the path to the database file is
	// empty
	ErrNoDatabaseProvided = errors.New("no database provided")
	// ErrNilStore occurs when a store method is called before Connect
	ErrNilStore = errors.New("store is nil")

	errNoSymbol      = errors.New("symbol unset")
	errInvalidRange  = errors.New("start must precede end")
	errNothingToSave = errors.New("no candles to save")
)

const createCandleTable = `
CREATE TABLE IF NOT EXISTS candle (
	symbol    TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	open      TEXT NOT NULL,
	high      TEXT NOT NULL,
	low       TEXT NOT NULL,
	close     TEXT NOT NULL,
	volume    TEXT NOT NULL,
	PRIMARY KEY (symbol, timestamp)
)`
