package frontier

import (
	"path"

	"github.com/paulbellamy/ratecounter"
	"github.com/philippgille/gokv"
	"github.com/philippgille/gokv/leveldb"
	"github.com/philippgille/gokv/syncmap"
)

// Seencheck holds the seencheck database and the seen counter
type Seencheck struct {
	SeenCount *ratecounter.Counter
	SeenDB    gokv.Store
}

func newSeencheck(jobPath string, inMemory bool) (*Seencheck, error) {
	seencheck := new(Seencheck)
	seencheck.SeenCount = new(ratecounter.Counter)

	if inMemory {
		seencheck.SeenDB = syncmap.NewStore(syncmap.DefaultOptions)
		return seencheck, nil
	}

	db, err := leveldb.NewStore(leveldb.Options{Path: path.Join(jobPath, "seencheck")})
	if err != nil {
		return nil, err
	}
	seencheck.SeenDB = db

	return seencheck, nil
}

// IsSeen check if the listing ID is in the seencheck database
func (seencheck *Seencheck) IsSeen(id string) (bool, error) {
	var value bool

	found, err := seencheck.SeenDB.Get(id, &value)
	if err != nil {
		return false, err
	}

	return found, nil
}

// Seen mark a listing ID as seen and increment the seen counter
func (seencheck *Seencheck) Seen(id string) error {
	if err := seencheck.SeenDB.Set(id, true); err != nil {
		return err
	}
	seencheck.SeenCount.Incr(1)

	return nil
}

// Close close the seencheck database
func (seencheck *Seencheck) Close() {
	seencheck.SeenDB.Close()
}
