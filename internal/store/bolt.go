package store

import (
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketCmd = "cmd"

// Bolt is a bbolt-backed store. Commands live in one bucket keyed by their
// big-endian sequence number, so cursor order is submission order.
type Bolt struct {
	db *bolt.DB
}

// NewBolt opens or creates a bbolt database at path.
func NewBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Bolt{db: db}, nil
}

// AddCmd adds a new command to the command history.
func (s *Bolt) AddCmd(text string) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), []byte(text))
	})
	return int(seq), err
}

// Cmds returns the most recent commands, oldest first.
func (s *Bolt) Cmds(limit int) ([]Cmd, error) {
	var cmds []Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(cmds) == limit {
				break
			}
			cmds = append(cmds, Cmd{Seq: int(unmarshalSeq(k)), Text: string(v)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(cmds)-1; i < j; i, j = i+1, j-1 {
		cmds[i], cmds[j] = cmds[j], cmds[i]
	}
	return cmds, nil
}

// Prune deletes all but the newest keep commands.
func (s *Bolt) Prune(keep int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		c := b.Cursor()
		n := 0
		for k, _ := c.Last(); k != nil; k, _ = c.Prev() {
			n++
			if n > keep {
				// Deleting through the cursor keeps iteration valid.
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Close closes the database.
func (s *Bolt) Close() error {
	return s.db.Close()
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
