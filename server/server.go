// Package server exposes a single league over HTTP.
//
// The engine isn't safe for concurrent use, so every handler holds the server's lock while it touches the league
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/justinjudd/league"
	"github.com/justinjudd/league/models"
	"github.com/justinjudd/league/tournament"
)

// Options configures a Server
type Options struct {
	Logger            *slog.Logger
	CORSAllowOrigins  []string
	RateLimitRequests int // Per client on mutating routes, zero disables limiting
	RateLimitWindow   time.Duration

	// OnFinalize is called with the season report once the league is finalized, while the lock is still held
	OnFinalize func(*tournament.LeagueReport) error
}

type Server struct {
	mu      sync.Mutex
	league  *tournament.League
	logger  *slog.Logger
	opts    Options
	limiter *ipLimiter
	handled bool // OnFinalize accepted the finalized report
}

// New creates a server for l
func New(l *tournament.League, opts Options) *Server {
	s := &Server{league: l, logger: opts.Logger, opts: opts}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if opts.RateLimitRequests > 0 && opts.RateLimitWindow > 0 {
		s.limiter = newIPLimiter(opts.RateLimitRequests, opts.RateLimitWindow)
	}
	return s
}

// Routes builds the router without CORS handling
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests(s.logger))

	r.HandleFunc("/league", s.handleLeague).Methods(http.MethodGet)
	r.HandleFunc("/league/html", s.handleLeagueHTML).Methods(http.MethodGet)
	r.HandleFunc("/divisions", s.handleDivisions).Methods(http.MethodGet)
	r.HandleFunc("/divisions/{name}", s.handleDivision).Methods(http.MethodGet)
	r.HandleFunc("/divisions/{name}/standings", s.handleStandings).Methods(http.MethodGet)
	r.HandleFunc("/divisions/{name}/html", s.handleDivisionHTML).Methods(http.MethodGet)
	r.HandleFunc("/conferences/{id}/matches", s.handleMatches).Methods(http.MethodGet)

	r.Handle("/matches/{id}/result", s.limiter.limit(http.HandlerFunc(s.handleRecordResult))).Methods(http.MethodPost)
	r.Handle("/matches/{id}/result", s.limiter.limit(http.HandlerFunc(s.handleAmendResult))).Methods(http.MethodPut)
	r.Handle("/league/start", s.limiter.limit(http.HandlerFunc(s.handleStart))).Methods(http.MethodPost)
	r.Handle("/league/postseason", s.limiter.limit(http.HandlerFunc(s.handlePostSeason))).Methods(http.MethodPost)
	r.Handle("/league/finalize", s.limiter.limit(http.HandlerFunc(s.handleFinalize))).Methods(http.MethodPost)

	return r
}

// Handler is the full HTTP handler, routes wrapped in CORS handling
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.CORSAllowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})
	return c.Handler(s.Routes())
}

type errorBody struct {
	Error string `json:"error"`
}

type conferenceView struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Competitors []models.Competitor `json:"competitors"`
	Complete    bool                `json:"complete"`
	Pending     int                 `json:"pending"`
}

type divisionView struct {
	Name                 string                   `json:"name"`
	Phase                string                   `json:"phase"`
	Size                 int                      `json:"size"`
	ConferenceSize       int                      `json:"conferenceSize"`
	TopTier              bool                     `json:"topTier"`
	Competitors          []models.Competitor      `json:"competitors,omitempty"`
	Conferences          []conferenceView         `json:"conferences,omitempty"`
	PromotionConferences []conferenceView         `json:"promotionConferences,omitempty"`
	Automatic            []models.Competitor      `json:"automatic,omitempty"`
	Report               *tournament.SeasonReport `json:"report,omitempty"`
}

type leagueView struct {
	Name           string                   `json:"name"`
	GroupStageDone bool                     `json:"groupStageDone"`
	Done           bool                     `json:"done"`
	Divisions      []divisionView           `json:"divisions"`
	Report         *tournament.LeagueReport `json:"report,omitempty"`
}

type conferenceStandings struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Standings []models.StandingsRow `json:"standings"`
}

type standingsView struct {
	Division    string                `json:"division"`
	Table       []models.StandingsRow `json:"table"`
	Conferences []conferenceStandings `json:"conferences"`
	Playoffs    []conferenceStandings `json:"playoffs,omitempty"`
}

type resultRequest struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func viewConferences(confs []*tournament.Conference) []conferenceView {
	out := make([]conferenceView, 0, len(confs))
	for _, c := range confs {
		out = append(out, conferenceView{
			ID:          c.GetID(),
			Name:        c.GetName(),
			Competitors: c.GetCompetitors(),
			Complete:    c.IsComplete(),
			Pending:     len(c.GroupStage().PendingMatches()),
		})
	}
	return out
}

func summarize(d *tournament.Division) divisionView {
	return divisionView{
		Name:           d.GetName(),
		Phase:          d.Phase().String(),
		Size:           d.GetSize(),
		ConferenceSize: d.GetConferenceSize(),
		TopTier:        d.IsTopTier(),
	}
}

func detail(d *tournament.Division) divisionView {
	v := summarize(d)
	v.Competitors = d.GetCompetitors()
	v.Conferences = viewConferences(d.GetConferences())
	v.PromotionConferences = viewConferences(d.GetPromotionConferences())
	v.Automatic = d.GetAutomaticPromotions()
	v.Report = d.GetReport()
	return v
}

func (s *Server) handleLeague(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeLeague(w)
}

func (s *Server) handleLeagueHTML(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	page, err := league.GenerateLeagueHTML(s.league)
	s.mu.Unlock()
	writeHTML(w, page, err)
}

func (s *Server) handleDivisions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []divisionView{}
	for _, d := range s.league.GetDivisions() {
		out = append(out, summarize(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDivision(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.league.GetDivision(mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail(d))
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.league.GetDivision(mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	v := standingsView{Division: d.GetName(), Table: d.Standings(), Conferences: []conferenceStandings{}}
	for _, c := range d.GetConferences() {
		v.Conferences = append(v.Conferences, conferenceStandings{ID: c.GetID(), Name: c.GetName(), Standings: c.Standings()})
	}
	for _, c := range d.GetPromotionConferences() {
		v.Playoffs = append(v.Playoffs, conferenceStandings{ID: c.GetID(), Name: c.GetName(), Standings: c.Standings()})
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDivisionHTML(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.league.GetDivision(mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	page, err := league.GenerateDivisionHTML(d)
	writeHTML(w, page, err)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, c, err := s.league.FindConference(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	matches := c.GroupStage().Matches()
	if r.URL.Query().Get("pending") == "true" {
		matches = c.GroupStage().PendingMatches()
	}
	if matches == nil {
		matches = []models.Match{}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	s.handleResult(w, r, s.league.RecordResult)
}

func (s *Server) handleAmendResult(w http.ResponseWriter, r *http.Request) {
	s.handleResult(w, r, s.league.AmendResult)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request, apply func(matchID string, home, away int) error) {
	var req resultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON"})
		return
	}
	if req.Home == nil || req.Away == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "both home and away scores are required"})
		return
	}

	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := apply(id, *req.Home, *req.Away); err != nil {
		s.writeError(w, err)
		return
	}
	_, m, err := s.league.FindMatch(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("result recorded", "match", id, "home", *req.Home, "away", *req.Away, "method", r.Method)
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.league.Start(); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("group stage started", "league", s.league.GetName())
	s.writeLeague(w)
}

func (s *Server) handlePostSeason(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.league.StartPostSeason(); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("post-season started", "league", s.league.GetName())
	s.writeLeague(w)
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.league.EndPostSeason()
	switch {
	case err == nil:
		s.logger.Info("season finalized", "league", s.league.GetName())
	case errors.Is(err, models.ErrAlreadyFinalized) && s.league.GetReport() != nil && !s.handled:
		// A failed OnFinalize is retried with the report already produced
		report = s.league.GetReport()
		s.logger.Info("Retrying finalized season handler", "league", s.league.GetName())
	default:
		s.writeError(w, err)
		return
	}

	if s.opts.OnFinalize != nil {
		if err := s.opts.OnFinalize(report); err != nil {
			s.logger.Error("Failed to handle finalized season", "league", s.league.GetName(), "error", err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
			return
		}
	}
	s.handled = true
	writeJSON(w, http.StatusOK, report)
}

// writeLeague responds with the league summary. The lock must be held
func (s *Server) writeLeague(w http.ResponseWriter) {
	v := leagueView{
		Name:           s.league.GetName(),
		GroupStageDone: s.league.IsGroupStageDone(),
		Done:           s.league.IsDone(),
		Report:         s.league.GetReport(),
	}
	for _, d := range s.league.GetDivisions() {
		v.Divisions = append(v.Divisions, summarize(d))
	}
	writeJSON(w, http.StatusOK, v)
}

// statusFor maps engine errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrDivisionNotFound),
		errors.Is(err, models.ErrConferenceNotFound),
		errors.Is(err, models.ErrUnknownMatch):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidConfiguration),
		errors.Is(err, models.ErrInvalidScore),
		errors.Is(err, models.ErrDuplicateDivisionName),
		errors.Is(err, models.ErrDivisionFull):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrAlreadyStarted),
		errors.Is(err, models.ErrAlreadyInPostSeason),
		errors.Is(err, models.ErrGroupStageIncomplete),
		errors.Is(err, models.ErrPostSeasonIncomplete),
		errors.Is(err, models.ErrAlreadyFinalized),
		errors.Is(err, models.ErrDuplicateResult),
		errors.Is(err, models.ErrNoResult):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeHTML(w http.ResponseWriter, page []byte, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
