// Package runlog persists alignment run history to a local sqlite database so
// parameter tuning across runs can be compared later.
package runlog

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rowlytics/strokealign/internal/align"
)

type DB struct {
	*sql.DB
}

// Open opens (creating if necessary) the run-history database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			source1           TEXT,
			source2           TEXT,
			output            TEXT,
			step              DOUBLE,
			tolerance         DOUBLE,
			head_method       TEXT,
			head_keypoints    TEXT,
			keypoint_conf     DOUBLE,
			file1_xmin        DOUBLE,
			file1_xmax        DOUBLE,
			file2_xmin        DOUBLE,
			file2_xmax        DOUBLE,
			checkpoints       BIGINT,
			file1_matched     BIGINT,
			file2_matched     BIGINT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS checkpoint_matches (
			run_id            TEXT,
			checkpoint        DOUBLE,
			file1_second      BIGINT,
			file1_head_x      DOUBLE,
			file2_second      BIGINT,
			file2_head_x      DOUBLE,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// RecordRun stores the run parameters, per-source diagnostics and the
// per-checkpoint match outcomes. Returns the generated run ID.
func (db *DB) RecordRun(res *align.Result, p align.Params, outPath string) (string, error) {
	runID := uuid.New().String()

	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	src1, src2 := &res.Sources[0], &res.Sources[1]
	_, err = tx.Exec(`
		INSERT INTO runs (
			run_id, source1, source2, output,
			step, tolerance, head_method, head_keypoints, keypoint_conf,
			file1_xmin, file1_xmax, file2_xmin, file2_xmax,
			checkpoints, file1_matched, file2_matched
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, src1.Path, src2.Path, outPath,
		p.Step, p.Tolerance, p.HeadMethod, strings.Join(p.HeadKeypoints, ","), p.KeypointConfidence,
		src1.Series.XMin, src1.Series.XMax, src2.Series.XMin, src2.Series.XMax,
		len(res.Checkpoints), src1.MatchedCount(), src2.MatchedCount(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO checkpoint_matches (
			run_id, checkpoint, file1_second, file1_head_x, file2_second, file2_head_x
		) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for ci, cp := range res.Checkpoints {
		if _, err := stmt.Exec(runID, cp,
			matchSecond(src1.Matches[ci]), matchHeadX(src1.Matches[ci]),
			matchSecond(src2.Matches[ci]), matchHeadX(src2.Matches[ci]),
		); err != nil {
			return "", fmt.Errorf("failed to insert checkpoint match: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// CheckpointMatch is one stored per-checkpoint outcome. Unmatched sides have
// invalid (NULL) seconds and head positions.
type CheckpointMatch struct {
	Checkpoint  float64
	File1Second sql.NullInt64
	File1HeadX  sql.NullFloat64
	File2Second sql.NullInt64
	File2HeadX  sql.NullFloat64
}

// Matches loads the stored checkpoint matches for a run, ordered by
// checkpoint.
func (db *DB) Matches(runID string) ([]CheckpointMatch, error) {
	rows, err := db.Query(`
		SELECT checkpoint, file1_second, file1_head_x, file2_second, file2_head_x
		FROM checkpoint_matches WHERE run_id = ? ORDER BY checkpoint`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CheckpointMatch
	for rows.Next() {
		var m CheckpointMatch
		if err := rows.Scan(&m.Checkpoint, &m.File1Second, &m.File1HeadX, &m.File2Second, &m.File2HeadX); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// RunCount returns the number of recorded runs.
func (db *DB) RunCount() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

func matchSecond(m align.Match) interface{} {
	if !m.OK {
		return nil
	}
	return m.Second
}

func matchHeadX(m align.Match) interface{} {
	if !m.OK {
		return nil
	}
	return m.HeadX
}
