package frontier

import (
	"encoding/gob"
	"os"
	"path"
	"time"

	"github.com/sirupsen/logrus"
)

// frontierDump is the run metadata written alongside the databases. The
// queue, seencheck and state stores are durable on their own, this file only
// carries what they cannot recount cheaply: the counters, the failed ID list
// and the original start timestamp.
type frontierDump struct {
	StartTime  time.Time
	Discovered int64
	Processed  int64
	Skipped    int64
	Failed     int64
	FailedIDs  []string
}

// Load read a previous run's metadata dump and restore it in the frontier
func (f *Frontier) Load() {
	decodeFile, err := os.OpenFile(path.Join(f.JobPath, "frontier.gob"), os.O_RDONLY, 0644)
	if err != nil {
		log.WithFields(logrus.Fields{
			"error": err,
		}).Warning("Unable to load frontier metadata, it is not a problem if you are starting this job for the first time")
		return
	}
	defer decodeFile.Close()

	var dump = new(frontierDump)
	if err := gob.NewDecoder(decodeFile).Decode(dump); err != nil {
		log.WithFields(logrus.Fields{
			"error": err,
		}).Warning("Unable to decode frontier metadata")
		return
	}

	f.StartTime = dump.StartTime
	f.Seencheck.SeenCount.Incr(dump.Discovered)
	f.State.ProcessedCount.Incr(dump.Processed)
	f.State.SkippedCount.Incr(dump.Skipped)
	f.State.FailedCount.Incr(dump.Failed)
	f.State.failedIDs = dump.FailedIDs

	log.WithFields(logrus.Fields{
		"discovered": dump.Discovered,
		"processed":  dump.Processed,
		"failed":     dump.Failed,
	}).Info("Successfully loaded the previous run's frontier metadata")
}

// Save write the frontier's counters and failed IDs to disk so the next
// run of the job resumes with correct totals
func (f *Frontier) Save() {
	encodeFile, err := os.OpenFile(path.Join(f.JobPath, "frontier.gob"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		log.Warning(err)
		return
	}
	defer encodeFile.Close()

	dump := &frontierDump{
		StartTime:  f.StartTime,
		Discovered: f.Seencheck.SeenCount.Value(),
		Processed:  f.State.ProcessedCount.Value(),
		Skipped:    f.State.SkippedCount.Value(),
		Failed:     f.State.FailedCount.Value(),
		FailedIDs:  f.State.FailedIDs(),
	}

	if err := gob.NewEncoder(encodeFile).Encode(dump); err != nil {
		log.Warning(err)
	}
}
