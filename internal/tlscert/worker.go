package tlscert

import (
	"fmt"
	"log"
	"time"

	"go_sitebuilder/internal/model"

	"gorm.io/gorm"
)

// WorkerConfig defines certificate worker configuration
type WorkerConfig struct {
	Enabled      bool
	IntervalSec  int
	BatchSize    int
	DirectoryURL string
	Email        string
}

// Worker drains the certificate request queue
type Worker struct {
	db          *gorm.DB
	service     *Service
	client      *LegoClient
	config      WorkerConfig
	stopChan    chan struct{}
	stoppedChan chan struct{}
}

// NewWorker creates a certificate worker
func NewWorker(db *gorm.DB, client *LegoClient, config WorkerConfig) *Worker {
	return &Worker{
		db:          db,
		service:     NewService(db),
		client:      client,
		config:      config,
		stopChan:    make(chan struct{}),
		stoppedChan: make(chan struct{}),
	}
}

// Start starts the worker
func (w *Worker) Start() {
	if !w.config.Enabled {
		log.Println("[Cert Worker] Disabled, skipping")
		close(w.stoppedChan)
		return
	}

	log.Printf("[Cert Worker] Starting with interval=%ds, batch=%d\n", w.config.IntervalSec, w.config.BatchSize)
	go w.run()
}

// Stop stops the worker
func (w *Worker) Stop() {
	if !w.config.Enabled {
		return
	}

	log.Println("[Cert Worker] Stopping...")
	close(w.stopChan)
	<-w.stoppedChan
	log.Println("[Cert Worker] Stopped")
}

func (w *Worker) run() {
	defer close(w.stoppedChan)

	ticker := time.NewTicker(time.Duration(w.config.IntervalSec) * time.Second)
	defer ticker.Stop()

	// Run immediately on start
	w.tick()

	for {
		select {
		case <-ticker.C:
			w.tick()
		case <-w.stopChan:
			return
		}
	}
}

// tick processes a batch of certificate requests
func (w *Worker) tick() {
	requests, err := w.service.PendingRequests(w.config.BatchSize)
	if err != nil {
		log.Printf("[Cert Worker] Failed to get pending requests: %v\n", err)
		return
	}

	if len(requests) == 0 {
		return
	}

	log.Printf("[Cert Worker] Processing %d certificate requests\n", len(requests))

	for i := range requests {
		w.processRequest(&requests[i])
	}
}

// processRequest handles a single issuance request
func (w *Worker) processRequest(request *model.CertificateRequest) {
	log.Printf("[Cert Worker] Processing request %d for %s (attempts=%d)\n",
		request.ID, request.Domain, request.Attempts)

	if err := w.service.MarkAsRunning(request.ID); err != nil {
		log.Printf("[Cert Worker] Request %d already claimed: %v\n", request.ID, err)
		return
	}

	account, err := w.client.EnsureAccount()
	if err != nil {
		w.service.MarkAsFailed(request.ID, fmt.Sprintf("Failed to ensure account: %v", err))
		return
	}

	result, err := w.client.RequestCertificate(account, request.Domain)
	if err != nil {
		w.service.MarkAsFailed(request.ID, fmt.Sprintf("Failed to obtain certificate: %v", err))
		return
	}

	if err := w.service.SaveCertificate(request.Domain, result); err != nil {
		w.service.MarkAsFailed(request.ID, fmt.Sprintf("Failed to save certificate: %v", err))
		return
	}

	if err := w.service.MarkAsIssued(request.ID); err != nil {
		log.Printf("[Cert Worker] Failed to mark request %d issued: %v\n", request.ID, err)
		return
	}

	log.Printf("[Cert Worker] Request %d completed, certificate for %s expires %s\n",
		request.ID, request.Domain, result.NotAfter.Format("2006-01-02"))
}
