// Package web serves the vault dashboard: a JSON API for wallet and vault
// actions plus SSE streams for live state and claim history.
package web

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vadiminshakov/keltra/internal/domain"
	"github.com/vadiminshakov/keltra/internal/events"
	"github.com/vadiminshakov/keltra/internal/services/vaultapp"
	"golang.org/x/crypto/acme/autocert"
)

const claimsPollInterval = 2 * time.Second

type stateService interface {
	Snapshot() domain.AppState
	Catalog() domain.Catalog
	Deposit(ctx context.Context, vaultID string, amount float64) error
	Withdraw(ctx context.Context, vaultID string, amount float64) error
	ClaimRewards(ctx context.Context, vaultID string) (float64, error)
	UpdateAccrual(ctx context.Context, vaultID string) error
	ConnectWallet()
	DisconnectWallet()
}

type claimReader interface {
	EventsAfter(index uint64) ([]domain.ClaimRecord, error)
}

type aprReader interface {
	AverageDailyApr(vaultID string) (float64, error)
	SmoothedDailyApr(vaultID string) ([]float64, error)
}

// Server exposes HTTP endpoints serving the HTML UI, the JSON API and the
// SSE streams.
type Server struct {
	Addr        string
	App         stateService
	Claims      claimReader
	Broadcaster *events.StateBroadcaster
	AprStats    aprReader
}

// NewServer creates a new web server instance.
func NewServer(addr string, app stateService, claims claimReader, broadcaster *events.StateBroadcaster) *Server {
	return &Server{Addr: addr, App: app, Claims: claims, Broadcaster: broadcaster}
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/state", s.withCORS(s.handleState))
	mux.HandleFunc("/api/vaults", s.withCORS(s.handleVaults))
	mux.HandleFunc("/api/deposit", s.withCORS(s.handleDeposit))
	mux.HandleFunc("/api/withdraw", s.withCORS(s.handleWithdraw))
	mux.HandleFunc("/api/claim", s.withCORS(s.handleClaim))
	mux.HandleFunc("/api/refresh", s.withCORS(s.handleRefresh))
	mux.HandleFunc("/api/apr", s.withCORS(s.handleAprStats))
	mux.HandleFunc("/api/wallet/connect", s.withCORS(s.handleConnect))
	mux.HandleFunc("/api/wallet/disconnect", s.withCORS(s.handleDisconnect))
	mux.HandleFunc("/state/stream", s.handleStateStream)
	mux.HandleFunc("/claims/stream", s.handleClaimsStream)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.mux(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartWithAutoTLS runs an HTTPS server with automatic TLS certificates via
// ACME. It also starts an HTTP server on port 80 to handle ACME HTTP-01
// challenges.
func (s *Server) StartWithAutoTLS(ctx context.Context, domains []string, cacheDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(domains) == 0 {
		return errors.New("at least one domain is required for automatic TLS")
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(cacheDir),
	}

	httpSrv := &http.Server{
		Addr:              ":80",
		Handler:           manager.HTTPHandler(nil),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	httpsSrv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.mux(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
		TLSConfig:         tlsConfig,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http (acme) server shutdown error: %v", err)
		}
		if err := httpsSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("https server shutdown error: %v", err)
		}
	}()

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http (acme) server error: %v", err)
		}
	}()

	if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

type statePayload struct {
	Wallet    domain.Wallet              `json:"wallet"`
	Positions map[string]domain.Position `json:"positions"`
	Ts        int64                      `json:"ts"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snapshot := s.App.Snapshot()
	writeJSON(w, http.StatusOK, statePayload{
		Wallet:    snapshot.Wallet,
		Positions: snapshot.Positions,
		Ts:        time.Now().UnixMilli(),
	})
}

type vaultPayload struct {
	domain.Vault
	GrossApr    float64  `json:"gross_apr"`
	NetApr      float64  `json:"net_apr"`
	AvgDailyApr *float64 `json:"avg_daily_apr,omitempty"`
}

func (s *Server) handleVaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	vaults := s.App.Catalog().Vaults()
	payload := make([]vaultPayload, 0, len(vaults))
	for _, v := range vaults {
		p := vaultPayload{Vault: v, GrossApr: v.GrossApr(), NetApr: v.NetApr()}
		if s.AprStats != nil {
			if avg, err := s.AprStats.AverageDailyApr(v.ID); err == nil {
				p.AvgDailyApr = &avg
			}
		}
		payload = append(payload, p)
	}
	writeJSON(w, http.StatusOK, payload)
}

type actionRequest struct {
	VaultID string  `json:"vault_id"`
	Amount  float64 `json:"amount"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAction(w, r)
	if !ok {
		return
	}
	if err := s.App.Deposit(r.Context(), req.VaultID, req.Amount); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAction(w, r)
	if !ok {
		return
	}
	if err := s.App.Withdraw(r.Context(), req.VaultID, req.Amount); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAction(w, r)
	if !ok {
		return
	}
	net, err := s.App.ClaimRewards(r.Context(), req.VaultID)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "net_tokens": net})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAction(w, r)
	if !ok {
		return
	}
	if err := s.App.UpdateAccrual(r.Context(), req.VaultID); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAprStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.AprStats == nil {
		http.Error(w, "apr stats not available", http.StatusServiceUnavailable)
		return
	}
	vaultID := r.URL.Query().Get("vault_id")
	if vaultID == "" {
		http.Error(w, "vault_id is required", http.StatusBadRequest)
		return
	}

	average, err := s.AprStats.AverageDailyApr(vaultID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	// smoothing needs a full window; serve the average alone until then
	smoothed, err := s.AprStats.SmoothedDailyApr(vaultID)
	if err != nil {
		smoothed = nil
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"vault_id":          vaultID,
		"average_daily_apr": average,
		"smoothed":          smoothed,
	})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.App.ConnectWallet()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "address": domain.MockAddress})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.App.DisconnectWallet()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decodeAction(w http.ResponseWriter, r *http.Request) (actionRequest, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return actionRequest{}, false
	}
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return actionRequest{}, false
	}
	if req.VaultID == "" {
		http.Error(w, "vault_id is required", http.StatusBadRequest)
		return actionRequest{}, false
	}
	return req, true
}

func writeActionError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, vaultapp.ErrVaultNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write json response: %v", err)
	}
}

func (s *Server) handleStateStream(w http.ResponseWriter, r *http.Request) {
	if s.Broadcaster == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "state broadcaster not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// comment heartbeat every 30s so proxies keep the connection
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	sub := s.Broadcaster.Subscribe()
	defer s.Broadcaster.Unsubscribe(sub)

	sendState := func(state domain.AppState) bool {
		payload, err := json.Marshal(statePayload{
			Wallet:    state.Wallet,
			Positions: state.Positions,
			Ts:        time.Now().UnixMilli(),
		})
		if err != nil {
			log.Printf("state stream marshal: %v", err)
			return false
		}
		fmt.Fprintf(w, "event: state\n")
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
		return true
	}

	// the current snapshot first, so late subscribers render immediately
	if !sendState(s.App.Snapshot()) {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case state, open := <-sub:
			if !open {
				return
			}
			if !sendState(state) {
				return
			}
		}
	}
}

func (s *Server) handleClaimsStream(w http.ResponseWriter, r *http.Request) {
	if s.Claims == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "claim journal not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(claimsPollInterval)
	defer pollTicker.Stop()

	lastIndex := parseLastEventID(r.Header.Get("Last-Event-ID"), r.URL.Query().Get("lastEventId"))
	sendClaims := func() error {
		records, err := s.Claims.EventsAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, record := range records {
			payload, err := json.Marshal(record.Event)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "id: %d\n", record.Index)
			fmt.Fprintf(w, "event: claim\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendClaims(); err != nil {
		http.Error(w, "failed to load claim history", http.StatusInternalServerError)
		log.Printf("claims stream initial load: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendClaims(); err != nil {
				log.Printf("claims stream poll err: %v", err)
			}
		}
	}
}

// parseLastEventID extracts an SSE event ID from either the Last-Event-ID
// header or a query parameter. The header is preferred; the query parameter
// allows manual reconnects to resume from a known index.
func parseLastEventID(headerVal, queryVal string) uint64 {
	idStr := strings.TrimSpace(headerVal)
	if idStr == "" {
		idStr = strings.TrimSpace(queryVal)
	}
	if idStr == "" {
		return 0
	}

	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		log.Printf("invalid last event id %q: %v", idStr, err)
		return 0
	}
	return id
}
