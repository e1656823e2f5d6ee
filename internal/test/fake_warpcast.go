package test

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/SafeMPC/signin-service/internal/farcaster"
)

// FakeWarpcast is an in-process double of the signer api. It accepts every
// signed key request and lets tests drive the state of each token.
type FakeWarpcast struct {
	Server *httptest.Server

	mu           sync.Mutex
	requests     map[string]*fakeSignedKeyRequest
	created      []farcaster.CreateSignedKeyRequestPayload
	failStatus   int
	failMessages []string
	createState  string
	createFID    *int64
}

type fakeSignedKeyRequest struct {
	payload farcaster.CreateSignedKeyRequestPayload
	state   string
	userFID *int64
}

// NewFakeWarpcast starts the fake, it is closed when the test ends.
func NewFakeWarpcast(t *testing.T) *FakeWarpcast {
	t.Helper()

	f := &FakeWarpcast{
		requests: make(map[string]*fakeSignedKeyRequest),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/signed-key-requests", f.handleCreate)
	mux.HandleFunc("/v2/signed-key-request", f.handleGet)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)

	return f
}

func (f *FakeWarpcast) URL() string {
	return f.Server.URL
}

// FailWith makes every following create request fail with status.
func (f *FakeWarpcast) FailWith(status int, messages ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failStatus = status
	f.failMessages = messages
}

// ApproveOnCreate lets every following request start out completed by userFID.
func (f *FakeWarpcast) ApproveOnCreate(userFID int64) {
	f.StateOnCreate(farcaster.StateCompleted, &userFID)
}

// StateOnCreate lets every following request start out in state.
func (f *FakeWarpcast) StateOnCreate(state string, userFID *int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createState = state
	f.createFID = userFID
}

// SetState moves the request identified by token to state. Unknown tokens are registered.
func (f *FakeWarpcast) SetState(token string, state string, userFID *int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[token]
	if !ok {
		req = &fakeSignedKeyRequest{}
		f.requests[token] = req
	}
	req.state = state
	req.userFID = userFID
}

// Created returns the payloads of all accepted create requests.
func (f *FakeWarpcast) Created() []farcaster.CreateSignedKeyRequestPayload {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]farcaster.CreateSignedKeyRequestPayload, len(f.created))
	copy(out, f.created)
	return out
}

func (f *FakeWarpcast) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeAPIErrors(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failStatus != 0 {
		writeAPIErrors(w, f.failStatus, f.failMessages...)
		return
	}

	var payload farcaster.CreateSignedKeyRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Key == "" || payload.Signature == "" {
		writeAPIErrors(w, http.StatusBadRequest, "invalid signed key request")
		return
	}

	sum := sha256.Sum256([]byte(payload.Key))
	token := "0x" + hex.EncodeToString(sum[:12])

	f.created = append(f.created, payload)
	req := &fakeSignedKeyRequest{
		payload: payload,
		state:   farcaster.StatePending,
	}
	if f.createState != "" {
		req.state = f.createState
		req.userFID = f.createFID
	}
	f.requests[token] = req

	writeJSON(w, http.StatusOK, f.envelope(token, req))
}

func (f *FakeWarpcast) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIErrors(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	token := r.URL.Query().Get("token")

	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[token]
	if !ok {
		writeAPIErrors(w, http.StatusNotFound, "SignedKeyRequest not found")
		return
	}

	writeJSON(w, http.StatusOK, f.envelope(token, req))
}

func (f *FakeWarpcast) envelope(token string, req *fakeSignedKeyRequest) map[string]interface{} {
	skr := map[string]interface{}{
		"token":       token,
		"deeplinkUrl": "farcaster://signed-key-request?" + url.Values{"token": []string{token}}.Encode(),
		"state":       req.state,
		"isSponsored": false,
	}
	if req.payload.Key != "" {
		skr["key"] = req.payload.Key
		skr["requestFid"] = req.payload.RequestFid
	}
	if req.userFID != nil {
		skr["userFid"] = *req.userFID
	}

	return map[string]interface{}{
		"result": map[string]interface{}{
			"signedKeyRequest": skr,
		},
	}
}

func writeAPIErrors(w http.ResponseWriter, status int, messages ...string) {
	errs := make([]map[string]string, 0, len(messages))
	for _, m := range messages {
		errs = append(errs, map[string]string{"message": m})
	}

	writeJSON(w, status, map[string]interface{}{"errors": errs})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
