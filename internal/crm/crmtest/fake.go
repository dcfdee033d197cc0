// Package crmtest содержит фейковый Systeme.io для тестов.
package crmtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Server эмулирует /api/contacts и /api/tags/{id}/contacts.
// Повторное создание контакта отвечает 422, как настоящий API.
type Server struct {
	*httptest.Server

	APIKey string

	mu          sync.Mutex
	contacts    map[string]map[int]bool
	calls       int
	failTags    map[int]int
	failCreates int
}

// NewServer запускает фейковый сервер. Закрыть через Close.
func NewServer(apiKey string) *Server {
	s := &Server{
		APIKey:   apiKey,
		contacts: make(map[string]map[int]bool),
		failTags: make(map[int]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// FailTag заставляет запрос с указанным тегом вернуть 500.
func (s *Server) FailTag(tagID int, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failTags[tagID] = status
}

// FailCreate заставляет создание контакта вернуть статус.
func (s *Server) FailCreate(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreates = status
}

// Calls количество запросов к серверу.
func (s *Server) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Tags теги контакта в порядке возрастания. ok=false, если контакта нет.
func (s *Server) Tags(email string) ([]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.contacts[strings.ToLower(email)]
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out, true
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if r.Header.Get("X-API-Key") != s.APIKey {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid api key"})
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "email is required"})
		return
	}
	email := strings.ToLower(body.Email)

	switch {
	case r.URL.Path == "/api/contacts":
		if s.failCreates != 0 {
			writeJSON(w, s.failCreates, map[string]string{"message": "failure"})
			return
		}
		if _, exists := s.contacts[email]; exists {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"errors": map[string][]string{"email": {"The email has already been taken."}},
			})
			return
		}
		s.contacts[email] = make(map[int]bool)
		writeJSON(w, http.StatusCreated, map[string]any{"id": len(s.contacts), "email": body.Email})

	case strings.HasPrefix(r.URL.Path, "/api/tags/") && strings.HasSuffix(r.URL.Path, "/contacts"):
		raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/tags/"), "/contacts")
		tagID, err := strconv.Atoi(raw)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if status, fail := s.failTags[tagID]; fail {
			writeJSON(w, status, map[string]string{"message": "tag failure"})
			return
		}
		set, ok := s.contacts[email]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "contact not found"})
			return
		}
		set[tagID] = true
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
