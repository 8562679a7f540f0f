package quiz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"
)

// SQLStore persists progress in the progress_kv table (see internal/db).
// Works against both sqlite and postgres through database/sql.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) getValue(ctx context.Context, profileID, key string) (string, bool) {
	row := s.db.QueryRowContext(ctx,
		`SELECT v FROM progress_kv WHERE profile_id=$1 AND k=$2`, profileID, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			// Fail-soft: a read error degrades to "absent" so the card still
			// renders with defaults.
			log.Printf("progress read %s: %v", key, err)
		}
		return "", false
	}
	return v, true
}

func (s *SQLStore) putValue(ctx context.Context, profileID, key, val string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO progress_kv (profile_id,k,v,updated_at) VALUES ($1,$2,$3,$4)
		ON CONFLICT (profile_id,k) DO UPDATE SET v=EXCLUDED.v, updated_at=EXCLUDED.updated_at`,
		profileID, key, val, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) deleteValue(ctx context.Context, profileID, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM progress_kv WHERE profile_id=$1 AND k=$2`, profileID, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) CurrentIndex(ctx context.Context, profileID, nodeID string) int {
	raw, ok := s.getValue(ctx, profileID, progressKey(nodeID))
	if !ok {
		return 0
	}
	return parseIndex(raw)
}

func (s *SQLStore) SetCurrentIndex(ctx context.Context, profileID, nodeID string, idx int) error {
	return s.putValue(ctx, profileID, progressKey(nodeID), strconv.Itoa(idx))
}

func (s *SQLStore) IsAnswered(ctx context.Context, profileID, nodeID string, idx int) bool {
	v, _ := s.getValue(ctx, profileID, answeredKey(nodeID, idx))
	return v == "1"
}

func (s *SQLStore) SetAnswered(ctx context.Context, profileID, nodeID string, idx int) error {
	return s.putValue(ctx, profileID, answeredKey(nodeID, idx), "1")
}

func (s *SQLStore) ClearAnswered(ctx context.Context, profileID, nodeID string, questionCount int) error {
	for i := 0; i < questionCount; i++ {
		if err := s.deleteValue(ctx, profileID, answeredKey(nodeID, i)); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) Reset(ctx context.Context, profileID, nodeID string, questionCount int) error {
	if err := s.SetCurrentIndex(ctx, profileID, nodeID, 0); err != nil {
		return err
	}
	return s.ClearAnswered(ctx, profileID, nodeID, questionCount)
}
