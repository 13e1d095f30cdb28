package quintoandar

import (
	"fmt"
	"math/rand"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// userAgents is the pool the fingerprint rotation draws from
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0",
}

// fingerprint is the outbound request identity: user agent, a synthetic
// device ID and a session cookie. rotate swaps the whole identity at once,
// apply stamps it on a request. Both are mutex-guarded so a rotation never
// races the header build of an in-flight request.
type fingerprint struct {
	sync.Mutex
	userAgent string
	deviceID  string
	sessionID string
}

func newFingerprint() *fingerprint {
	f := new(fingerprint)
	f.rotate()

	return f
}

func (f *fingerprint) rotate() {
	f.Lock()
	f.userAgent = userAgents[rand.Intn(len(userAgents))]
	f.deviceID = uuid.New().String()
	f.sessionID = uuid.New().String()
	f.Unlock()
}

func (f *fingerprint) apply(req *http.Request) {
	f.Lock()
	defer f.Unlock()

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.8")
	req.Header.Set("X-Device-Id", f.deviceID)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: f.sessionID})
	req.Header.Set("Referer", fmt.Sprintf("https://www.quintoandar.com.br/alugar/imovel?device=%s", f.deviceID))
}
