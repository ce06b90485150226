// Package mb writes tilesets into MBTiles (SQLite) databases.
package mb

import (
	"database/sql"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/eak1mov/go-geojsonvt/tile"
	_ "github.com/mattn/go-sqlite3"
)

// Writer implements tile.Writer for MBTiles. All tiles are inserted in a
// single transaction committed by Finalize.
type Writer struct {
	db     *sql.DB
	tx     *sql.Tx
	stmt   *sql.Stmt
	logger *slog.Logger
	count  int
}

type writerConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

// WithMetadata sets rows of the metadata table (name, format, bounds, json...).
func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates the database schema at filePath and stores the metadata.
func NewWriter(filePath string, opts ...WriterOption) (w *Writer, err error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, errors.Wrap(err, "mbtiles: open")
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	_, err = db.Exec(`
		CREATE TABLE metadata (name TEXT, value TEXT);
		CREATE TABLE tiles (
			zoom_level INTEGER,
			tile_column INTEGER,
			tile_row INTEGER,
			tile_data BLOB
		);
	`)
	if err != nil {
		return nil, errors.Wrap(err, "mbtiles: create schema")
	}

	for name, value := range config.Metadata {
		if _, err = db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", name, value); err != nil {
			return nil, errors.Wrapf(err, "mbtiles: metadata %q", name)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	stmt, err := tx.Prepare("INSERT INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	return &Writer{db: db, tx: tx, stmt: stmt, logger: config.Logger}, nil
}

func (w *Writer) Close() error {
	var err error
	if w.tx != nil {
		err = errors.CombineErrors(w.stmt.Close(), w.tx.Rollback())
		w.tx = nil
	}
	return errors.CombineErrors(err, w.db.Close())
}

// WriteTile inserts a tile; rows are stored in TMS order (y flipped).
func (w *Writer) WriteTile(tileID tile.ID, tileData []byte) error {
	if w.tx == nil {
		return errors.New("mbtiles: write after finalize")
	}
	x, y, z := tileID.X, tileID.Y, tileID.Z
	y = (1 << z) - 1 - y

	if _, err := w.stmt.Exec(z, x, y, tileData); err != nil {
		return errors.Wrapf(err, "mbtiles: insert tile %v", tileID)
	}
	w.count++
	return nil
}

func (w *Writer) Finalize() error {
	if w.tx == nil {
		panic(errors.AssertionFailedf("mbtiles: finalize called twice"))
	}
	err := errors.CombineErrors(w.stmt.Close(), w.tx.Commit())
	w.tx = nil
	if err != nil {
		return errors.Wrap(err, "mbtiles: commit")
	}

	w.logger.Debug("mbtiles: creating index", "tiles", w.count)
	_, err = w.db.Exec("CREATE UNIQUE INDEX tile_index ON tiles (zoom_level, tile_column, tile_row)")
	if err != nil {
		return errors.Wrap(err, "mbtiles: create index")
	}
	w.logger.Debug("mbtiles: done")
	return nil
}

var _ tile.Writer = (*Writer)(nil)
