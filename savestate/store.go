package savestate

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/mogaika/freescape/utils"
)

var ErrNoSlot = errors.New("no such save slot")

type SlotInfo struct {
	Slot    string    `json:"slot"`
	Release string    `json:"release"`
	Area    uint16    `json:"area"`
	SavedAt time.Time `json:"saved_at"`
}

// Store keeps snapshots in named slots of a SQLite database.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open save database %q", path)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	for _, m := range []string{
		`PRAGMA journal_mode=WAL`,
		`CREATE TABLE IF NOT EXISTS saves (
			slot TEXT PRIMARY KEY,
			release TEXT NOT NULL,
			area INTEGER NOT NULL,
			data BLOB NOT NULL,
			saved_at INTEGER NOT NULL
		)`,
	} {
		if _, err := s.db.Exec(m); err != nil {
			return errors.Wrapf(err, "Failed to migrate save database")
		}
	}
	return nil
}

// Save writes snap into slot, replacing what was there.
func (s *Store) Save(slot string, snap *Snapshot) error {
	data, err := snap.Marshal()
	if err != nil {
		return errors.Wrapf(err, "Failed to marshal snapshot for slot %q", slot)
	}
	if _, err := s.db.Exec(`INSERT INTO saves (slot, release, area, data, saved_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET release = excluded.release, area = excluded.area,
			data = excluded.data, saved_at = excluded.saved_at`,
		slot, snap.Release, int(snap.Area), data, time.Now().UnixNano()); err != nil {
		return errors.Wrapf(err, "Failed to save slot %q", slot)
	}
	utils.Log.Infof("Saved %s area %d into slot %q (%d bytes)", snap.Release, snap.Area, slot, len(data))
	return nil
}

func (s *Store) Load(slot string) (*Snapshot, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM saves WHERE slot = ?`, slot).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNoSlot, "%q", slot)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to load slot %q", slot)
	}
	snap, err := Unmarshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Slot %q", slot)
	}
	return snap, nil
}

// List returns every slot, most recently saved first.
func (s *Store) List() ([]SlotInfo, error) {
	rows, err := s.db.Query(`SELECT slot, release, area, saved_at FROM saves ORDER BY saved_at DESC, slot`)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to list slots")
	}
	defer rows.Close()

	var slots []SlotInfo
	for rows.Next() {
		var info SlotInfo
		var area int
		var savedAt int64
		if err := rows.Scan(&info.Slot, &info.Release, &area, &savedAt); err != nil {
			return nil, errors.Wrapf(err, "Failed to scan slot")
		}
		info.Area = uint16(area)
		info.SavedAt = time.Unix(0, savedAt)
		slots = append(slots, info)
	}
	return slots, rows.Err()
}

func (s *Store) Delete(slot string) error {
	res, err := s.db.Exec(`DELETE FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return errors.Wrapf(err, "Failed to delete slot %q", slot)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(ErrNoSlot, "%q", slot)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
