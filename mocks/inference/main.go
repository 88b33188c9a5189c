// Mock generation backend for local runs. It implements the job-based
// protocol: POST /v1/generate returns either a direct result or a job_id, and
// GET /v1/jobs/{id} reports job progress.
//
// Environment knobs:
//
//	MOCK_ADDR      listen address (default :8082)
//	MOCK_DELAY_MS  how long a job stays pending (default 800)
//	MOCK_MODE      "job" (default), "direct", or "fail"
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"concierge/schema"
)

type generateReq struct {
	Prompt          string  `json:"prompt"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
}

type generateResp struct {
	Result string `json:"result,omitempty"`
	JobID  string `json:"job_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

type jobResp struct {
	Status schema.JobStatus `json:"status"`
	Result string           `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type server struct {
	mu    sync.Mutex
	jobs  map[string]schema.GenerationJob
	delay time.Duration
	mode  string
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	switch s.mode {
	case "direct":
		_ = json.NewEncoder(w).Encode(generateResp{Result: answerFor(req.Prompt)})
	case "fail":
		_ = json.NewEncoder(w).Encode(generateResp{Error: "model overloaded"})
	default:
		job := schema.GenerationJob{
			ID:        uuid.NewString(),
			Status:    schema.JobPending,
			CreatedAt: time.Now(),
		}
		s.mu.Lock()
		s.jobs[job.ID] = job
		s.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(generateResp{JobID: job.ID})
	}
}

func (s *server) handleJob(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/jobs/")
	s.mu.Lock()
	job, ok := s.jobs[id]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "unknown job", http.StatusNotFound)
		return
	}
	if time.Since(job.CreatedAt) < s.delay {
		_ = json.NewEncoder(w).Encode(jobResp{Status: schema.JobPending})
		return
	}
	_ = json.NewEncoder(w).Encode(jobResp{Status: schema.JobCompleted, Result: "This is a mock answer generated for your question."})
}

func answerFor(prompt string) string {
	if strings.Contains(strings.ToLower(prompt), "hello") {
		return "Hello! How can I help you today?"
	}
	return "This is a mock answer generated for your question."
}

func main() {
	addr := ":8082"
	if v := os.Getenv("MOCK_ADDR"); v != "" {
		addr = v
	}
	delay := 800 * time.Millisecond
	if v := os.Getenv("MOCK_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			delay = time.Duration(ms) * time.Millisecond
		}
	}
	mode := os.Getenv("MOCK_MODE")

	s := &server{jobs: make(map[string]schema.GenerationJob), delay: delay, mode: mode}
	http.HandleFunc("/v1/generate", s.handleGenerate)
	http.HandleFunc("/v1/jobs/", s.handleJob)
	log.Printf("Inference mock listening on %s (mode=%q delay=%v)", addr, mode, delay)
	log.Fatal(http.ListenAndServe(addr, nil))
}
