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

// ClockService supplies "now" for all date-rollover decisions. It prefers a
// network-verified time source so a child changing the device clock cannot
// skip days; when the network check fails the local clock is used silently.
type ClockService struct {
	appContext.DefaultService

	mu     sync.RWMutex
	offset time.Duration
	synced bool

	timeHosts []string
	client    *http.Client
	closed    chan struct{}
}

const CLOCK_SVC = "clock_svc"

const clockProbeTimeout = 3 * time.Second

func (svc ClockService) Id() string {
	return CLOCK_SVC
}

func (svc *ClockService) Configure(ctx *appContext.Context) error {
	svc.timeHosts = []string{
		"https://www.google.com/generate_204",
		"https://www.cloudflare.com/cdn-cgi/trace",
	}
	if host := os.Getenv("TIME_PROBE_URL"); host != "" {
		svc.timeHosts = append([]string{host}, svc.timeHosts...)
	}

	svc.client = &http.Client{Timeout: clockProbeTimeout}
	svc.closed = make(chan struct{})

	return svc.DefaultService.Configure(ctx)
}

func (svc *ClockService) Start() error {
	svc.sync()

	go svc.resyncLoop()

	return nil
}

func (svc *ClockService) Shutdown() {
	close(svc.closed)
}

// Now returns network-corrected time when a sync has succeeded, local time
// otherwise. Degradation is soft: no error surfaces to callers.
func (svc *ClockService) Now() time.Time {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return time.Now().Add(svc.offset)
}

// Synced reports whether the current offset came from a network source.
func (svc *ClockService) Synced() bool {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.synced
}

func (svc *ClockService) resyncLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			svc.sync()
		case <-svc.closed:
			return
		}
	}
}

// sync derives the clock offset from the Date header of the first probe host
// that answers. HTTP dates carry second granularity, which is far finer than
// the calendar-day granularity the rollover comparison needs.
func (svc *ClockService) sync() {
	for _, host := range svc.timeHosts {
		serverTime, err := svc.fetchServerTime(host)
		if err != nil {
			continue
		}

		offset := time.Until(serverTime)
		svc.mu.Lock()
		svc.offset = offset
		svc.synced = true
		svc.mu.Unlock()

		if offset > time.Minute || offset < -time.Minute {
			log.WithFields(log.Fields{
				"offset": offset.String(),
				"host":   host,
			}).Warn("Local clock drifts from network time")
		}
		return
	}

	svc.mu.Lock()
	svc.synced = false
	svc.offset = 0
	svc.mu.Unlock()
}

func (svc *ClockService) fetchServerTime(url string) (time.Time, error) {
	ctx, cancel := context.WithTimeout(context.Background(), clockProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return time.Time{}, err
	}

	resp, err := svc.client.Do(req)
	if err != nil {
		return time.Time{}, err
	}
	defer resp.Body.Close()

	return http.ParseTime(resp.Header.Get("Date"))
}
