package services

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

// ConnectivityService gates every mutating store call. The probe races two
// independent generate_204-style endpoints and reports online if either
// answers within the timeout. Listeners registered for the restored signal
// are fired once per offline-to-online transition; the retry queue replays
// its backlog off that signal.
type ConnectivityService struct {
	appContext.DefaultService

	probeURLs []string
	client    *http.Client

	mu        sync.Mutex
	online    bool
	listeners []func()

	closed chan struct{}
}

const CONNECTIVITY_SVC = "connectivity_svc"

const probeTimeout = 2 * time.Second

func (svc ConnectivityService) Id() string {
	return CONNECTIVITY_SVC
}

func (svc *ConnectivityService) Configure(ctx *appContext.Context) error {
	svc.probeURLs = []string{
		"https://www.google.com/generate_204",
		"https://connectivitycheck.gstatic.com/generate_204",
	}
	if url := os.Getenv("CONNECTIVITY_PROBE_URL"); url != "" {
		svc.probeURLs[0] = url
	}

	svc.client = &http.Client{Timeout: probeTimeout}
	svc.closed = make(chan struct{})
	svc.online = true

	return svc.DefaultService.Configure(ctx)
}

func (svc *ConnectivityService) Start() error {
	go svc.watchLoop()
	return nil
}

func (svc *ConnectivityService) Shutdown() {
	close(svc.closed)
}

// OnRestored registers a callback fired when connectivity returns after an
// outage.
func (svc *ConnectivityService) OnRestored(fn func()) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.listeners = append(svc.listeners, fn)
}

// Check probes both endpoints in parallel and returns true as soon as one
// succeeds.
func (svc *ConnectivityService) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	results := make(chan bool, len(svc.probeURLs))
	for _, url := range svc.probeURLs {
		go func(url string) {
			results <- svc.probe(ctx, url)
		}(url)
	}

	for range svc.probeURLs {
		if <-results {
			svc.setOnline(true)
			return true
		}
	}
	svc.setOnline(false)
	return false
}

func (svc *ConnectivityService) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := svc.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 500
}

func (svc *ConnectivityService) setOnline(online bool) {
	svc.mu.Lock()
	wasOffline := !svc.online
	svc.online = online

	var fire []func()
	if online && wasOffline {
		fire = append(fire, svc.listeners...)
	}
	svc.mu.Unlock()

	if len(fire) > 0 {
		log.Info("Connectivity restored, firing queued listeners")
		for _, fn := range fire {
			fn()
		}
	}
}

func (svc *ConnectivityService) watchLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			svc.Check(context.Background())
		case <-svc.closed:
			return
		}
	}
}
