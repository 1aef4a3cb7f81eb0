// Package farmtest provides an in-process fake of the charity farm API for
// tests. It serves canned stats and projects and lets tests script responses
// per route.
package farmtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/theirongolddev/cfarm/internal/model"
)

// Route names accepted by Respond and Hits.
const (
	RouteStats    = "stats"
	RouteProjects = "projects"
	RouteHelp     = "help"
	RouteTap      = "tap"
	RouteAFK      = "afk"
	RouteUpgrade  = "upgrade"
)

// Replies of the AFK and upgrade routes, modelled on the real server.
const (
	MsgNoAFKUpgrade = "Buy the AFK upgrade to earn while you are away"
	MsgMaxLevel     = "Upgrade is already at its maximum level"
	MsgNoFunds      = "Not enough funds"
	MsgUpgraded     = "Upgrade purchased"
)

// Response is a scripted reply.
type Response struct {
	Status int
	Body   any
}

// Contribution records what a help_project request carried.
type Contribution struct {
	ProjectID   string
	Amount      float64
	ContentType string
}

// Server is a fake charity farm server.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	stats         model.UserStats
	projects      []model.Project
	reward        float64
	session       string
	scripted      map[string]Response
	hits          map[string]int
	contributions []Contribution
	tapHold       chan struct{}
	afkRate       float64
	afkTotal      float64
	upgrades      map[string]*upgrade
}

type upgrade struct {
	level, maxLevel int
	cost            float64
}

// New starts a fake server. Close it when done.
func New() *Server {
	s := &Server{
		reward:   0.01,
		scripted: make(map[string]Response),
		hits:     make(map[string]int),
		upgrades: make(map[string]*upgrade),
	}

	r := chi.NewRouter()
	r.Get("/user_stats", s.handleStats)
	r.Get("/projects", s.handleProjects)
	r.Post("/help_project/{projectID}", s.handleHelp)
	r.Post("/tap", s.handleTap)
	r.Get("/afk_earnings", s.handleAFK)
	r.Post("/purchase_upgrade/{upgradeID}", s.handleUpgrade)
	r.Get("/login", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>login</html>"))
	})

	s.Server = httptest.NewServer(r)
	return s
}

// SetStats sets the stats returned by /user_stats and /tap.
func (s *Server) SetStats(st model.UserStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = st
}

// SetProjects sets the list returned by /projects.
func (s *Server) SetProjects(ps []model.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = ps
}

// SetReward sets the reward returned by /tap.
func (s *Server) SetReward(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reward = v
}

// SetAFKEarnings sets what each /afk_earnings call pays out. Zero answers
// like a user without the AFK upgrade.
func (s *Server) SetAFKEarnings(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.afkRate = v
}

// AddUpgrade offers an upgrade at level 0. Each purchase raises the cost by
// half.
func (s *Server) AddUpgrade(id string, cost float64, maxLevel int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upgrades[id] = &upgrade{cost: cost, maxLevel: maxLevel}
}

// Balance returns the fake user's current balance.
func (s *Server) Balance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.Balance
}

// RequireSession makes every route redirect to /login unless the session
// cookie equals value.
func (s *Server) RequireSession(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = value
}

// Respond scripts the reply for route until changed.
func (s *Server) Respond(route string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripted[route] = Response{Status: status, Body: body}
}

// HoldTaps makes /tap block until the returned release func is called.
func (s *Server) HoldTaps() (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.tapHold = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.tapHold = nil
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Hits returns how many requests route has served.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// Contributions returns the help_project requests seen so far.
func (s *Server) Contributions() []Contribution {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Contribution, len(s.contributions))
	copy(out, s.contributions)
	return out
}

func (s *Server) count(route string) {
	s.mu.Lock()
	s.hits[route]++
	s.mu.Unlock()
}

// begin reports whether the request may proceed, writing the redirect or
// scripted reply itself when it may not.
func (s *Server) begin(w http.ResponseWriter, r *http.Request, route string) bool {
	s.mu.Lock()
	session := s.session
	resp, scripted := s.scripted[route]
	s.mu.Unlock()

	if session != "" {
		c, err := r.Cookie("session")
		if err != nil || c.Value != session {
			http.Redirect(w, r, "/login", http.StatusFound)
			return false
		}
	}
	if scripted {
		writeJSON(w, resp.Status, resp.Body)
		return false
	}
	return true
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.count(RouteStats)
	if !s.begin(w, r, RouteStats) {
		return
	}
	s.mu.Lock()
	st := s.stats
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	s.count(RouteProjects)
	if !s.begin(w, r, RouteProjects) {
		return
	}
	s.mu.Lock()
	ps := s.projects
	s.mu.Unlock()
	if ps == nil {
		ps = []model.Project{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	s.count(RouteHelp)
	c := Contribution{
		ProjectID:   chi.URLParam(r, "projectID"),
		ContentType: r.Header.Get("Content-Type"),
	}
	if c.ContentType == "application/json" {
		var body struct {
			Amount float64 `json:"amount"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		c.Amount = body.Amount
	} else if err := r.ParseForm(); err == nil {
		c.Amount, _ = strconv.ParseFloat(r.PostForm.Get("amount"), 64)
	}

	s.mu.Lock()
	s.contributions = append(s.contributions, c)
	s.mu.Unlock()

	if !s.begin(w, r, RouteHelp) {
		return
	}

	s.mu.Lock()
	balance := s.stats.Balance
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"new_balance":      balance,
		"project_progress": 0,
	})
}

func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	s.count(RouteTap)
	s.mu.Lock()
	hold := s.tapHold
	s.mu.Unlock()
	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	if !s.begin(w, r, RouteTap) {
		return
	}

	s.mu.Lock()
	res := model.TapResult{UserStats: s.stats, Reward: s.reward}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAFK(w http.ResponseWriter, r *http.Request) {
	s.count(RouteAFK)
	if !s.begin(w, r, RouteAFK) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.afkRate == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"earnings":    0,
			"new_balance": s.stats.Balance,
			"message":     MsgNoAFKUpgrade,
		})
		return
	}
	s.stats.Balance += s.afkRate
	s.afkTotal += s.afkRate
	writeJSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"earnings":           s.afkRate,
		"total_afk_earnings": s.afkTotal,
		"new_balance":        s.stats.Balance,
	})
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	s.count(RouteUpgrade)
	if !s.begin(w, r, RouteUpgrade) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.upgrades[chi.URLParam(r, "upgradeID")]
	switch {
	case !ok:
		http.NotFound(w, r)
		return
	case u.level >= u.maxLevel:
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": MsgMaxLevel})
		return
	case s.stats.Balance < u.cost:
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": MsgNoFunds})
		return
	}

	s.stats.Balance -= u.cost
	u.level++
	u.cost *= 1.5
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       MsgUpgraded,
		"new_balance":   s.stats.Balance,
		"upgrade_level": u.level,
		"next_cost":     u.cost,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
