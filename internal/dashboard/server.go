package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"capitol/internal/aggregate"
	"capitol/internal/profiles"
	"capitol/internal/status"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server is the HTTP status dashboard. It only ever reads: the store
// through GetStatus and the profile dataset through the repository.
// The one deliberate exception is /heartbeat, which external watchdogs
// use to stamp liveness into the store
type Server struct {
	store       *status.Store
	repo        profiles.Repository
	broadcaster *Broadcaster
	addr        string
}

func NewServer(store *status.Store, repo profiles.Repository, addr string, broadcastInterval time.Duration) *Server {
	return &Server{
		store:       store,
		repo:        repo,
		broadcaster: NewBroadcaster(store, broadcastInterval),
		addr:        addr,
	}
}

func (s *Server) Broadcaster() *Broadcaster {
	return s.broadcaster
}

func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(pageTemplates())

	r.GET("/", s.handleDashboard)
	r.GET("/stats", s.handleStats)
	r.GET("/map", s.handleMap)
	r.GET("/status.json", s.handleStatusJSON)
	r.GET("/events", s.handleEvents)
	r.GET("/heartbeat", s.handleHeartbeat)
	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
// The snapshot broadcaster runs for the same lifetime
func (s *Server) Run(ctx context.Context) error {
	go s.broadcaster.Run(ctx)

	server := &http.Server{Addr: s.addr, Handler: s.Router()}
	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	log.Info().Msg(fmt.Sprintf("Dashboard listening on %s", s.addr))

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleStatusJSON(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.GetStatus())
}

func (s *Server) handleHeartbeat(c *gin.Context) {
	s.store.MarkHeartbeat()
	c.Status(http.StatusNoContent)
}

// handleEvents is the server-sent-event stream: one snapshot on connect,
// then one per broadcast interval until the client goes away
func (s *Server) handleEvents(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	id, snapshots := s.broadcaster.Subscribe()
	defer s.broadcaster.Unsubscribe(id)

	if !writeEvent(c.Writer, flusher, s.store.GetStatus()) {
		return
	}
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case snapshot := <-snapshots:
			if !writeEvent(c.Writer, flusher, snapshot) {
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, snapshot status.Snapshot) bool {
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not serialize snapshot for event stream: %s", err))
		return false
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return false
	}
	flusher.Flush()
	return true
}

func (s *Server) handleDashboard(c *gin.Context) {
	snapshot := s.store.GetStatus()
	dataset := s.repo.Load()
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Snapshot": snapshot,
		"Party":    aggregate.PartyActivity(dataset),
		"Profiles": len(dataset),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	dataset := s.repo.Load()

	metric := aggregate.Metric(c.Query("metric"))
	lbPage := queryInt(c, "lbpage", 1)
	lbSize := queryInt(c, "size", aggregate.DefaultLeaderboardPageSize)

	query := aggregate.DirectoryQuery{
		Party:   c.Query("party"),
		MaxDays: queryFloat(c, "activity", 0),
		Search:  c.Query("search"),
		Sort:    c.Query("sort"),
		Desc:    c.Query("dir") == "desc",
		Page:    queryInt(c, "page", 1),
	}

	c.HTML(http.StatusOK, "stats.html", gin.H{
		"Leaderboard": aggregate.Leaderboard(dataset, metric, lbPage, lbSize),
		"Directory":   aggregate.Directory(dataset, query),
		"Query":       query,
	})
}

func (s *Server) handleMap(c *gin.Context) {
	dataset := s.repo.Load()
	opts := aggregate.RollupOptions{
		ActiveDays: queryFloat(c, "activity", 0),
		Dedupe:     c.Query("dedupe") == "1",
	}
	c.HTML(http.StatusOK, "map.html", gin.H{
		"States": aggregate.StateRollup(dataset, opts),
	})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return value
}

func queryFloat(c *gin.Context, name string, fallback float64) float64 {
	value, err := strconv.ParseFloat(c.Query(name), 64)
	if err != nil {
		return fallback
	}
	return value
}

func pageTemplates() *template.Template {
	funcs := template.FuncMap{
		"fmtTime": func(t *time.Time) string {
			if t == nil {
				return "never"
			}
			return t.Format("2006-01-02 15:04:05")
		},
		"fmtFloat": func(value float64) string {
			return strconv.FormatFloat(value, 'f', 1, 64)
		},
		"fmtMoney": func(value float64) string {
			return fmt.Sprintf("$%.2f", value)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
