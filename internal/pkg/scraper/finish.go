package scraper

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
)

// SetupCloseHandler stop the job on CTRL+C; workers finish their unit of
// work first, the frontier state stays consistent for a later resume
func (s *Scraper) SetupCloseHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Warning("CTRL+C caught, finishing in-flight work and saving state")
		signal.Stop(c)
		s.Finished.Set(true)
	}()
}
