package live

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/DhavalSuthar-24/crease/internal/logger"
	"github.com/DhavalSuthar-24/crease/pkg/responses"
)

// StateSource rebuilds the latest Update from durable storage when the cache
// has nothing. It returns nil, nil for a match that has not started.
type StateSource interface {
	LatestUpdate(ctx context.Context, matchID uint) (*Update, error)
}

// HubManager owns one Hub per watched match and implements publishing of
// state updates to the cache and to spectators.
type HubManager struct {
	mu     sync.Mutex
	hubs   map[uint]*Hub
	cache  StateCache
	source StateSource
	log    *zap.Logger

	upgrader websocket.Upgrader
}

// NewHubManager builds a manager. allowedOrigins lists browser origins that
// may subscribe besides the API's own host.
func NewHubManager(cache StateCache, source StateSource, allowedOrigins []string, log *zap.Logger) *HubManager {
	if cache == nil {
		cache = NewMemoryStateCache()
	}
	hm := &HubManager{
		hubs:   make(map[uint]*Hub),
		cache:  cache,
		source: source,
		log:    logger.OrNop(log),
	}
	hm.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return hm
}

// SetSource wires the durable fallback after construction.
func (hm *HubManager) SetSource(source StateSource) {
	hm.mu.Lock()
	hm.source = source
	hm.mu.Unlock()
}

func originChecker(allowed []string) func(r *http.Request) bool {
	hosts := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts[u.Host] = true
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host || hosts[u.Host]
	}
}

// attach returns the hub for matchID, starting it if needed, and counts one
// more client against it.
func (hm *HubManager) attach(matchID uint) *Hub {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	h, ok := hm.hubs[matchID]
	if !ok {
		h = newHub(matchID, hm)
		hm.hubs[matchID] = h
		go h.run()
	}
	h.attached.Add(1)
	return h
}

// retire removes an idle hub. It reports false if a client attached meanwhile.
func (hm *HubManager) retire(h *Hub) bool {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	if h.attached.Load() != 0 {
		return false
	}
	if hm.hubs[h.matchID] == h {
		delete(hm.hubs, h.matchID)
	}
	h.log.Debug("hub retired")
	return true
}

func (hm *HubManager) hub(matchID uint) *Hub {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	return hm.hubs[matchID]
}

// Publish caches u and pushes it to the match's spectators.
func (hm *HubManager) Publish(ctx context.Context, u Update) error {
	data, err := encodeUpdate(u)
	if err != nil {
		return err
	}
	cacheErr := hm.cache.Set(ctx, u.MatchID, data)
	if cacheErr != nil {
		hm.log.Warn("state cache write failed", zap.Uint("match_id", u.MatchID), zap.Error(cacheErr))
	}

	if h := hm.hub(u.MatchID); h != nil {
		select {
		case h.broadcast <- frame{version: u.Version, data: data}:
		case <-h.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return cacheErr
}

// Current returns the latest frame for matchID from the cache, falling back
// to the StateSource. It returns nil, nil when nothing is known.
func (hm *HubManager) Current(ctx context.Context, matchID uint) ([]byte, error) {
	data, err := hm.cache.Get(ctx, matchID)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		hm.log.Warn("state cache read failed", zap.Uint("match_id", matchID), zap.Error(err))
	}

	hm.mu.Lock()
	source := hm.source
	hm.mu.Unlock()
	if source == nil {
		return nil, nil
	}
	u, err := source.LatestUpdate(ctx, matchID)
	if err != nil || u == nil {
		return nil, err
	}
	data, err = encodeUpdate(*u)
	if err != nil {
		return nil, err
	}
	if err := hm.cache.Set(ctx, matchID, data); err != nil {
		hm.log.Warn("state cache write failed", zap.Uint("match_id", matchID), zap.Error(err))
	}
	return data, nil
}

// ServeWS upgrades the request and subscribes it to matchID. The subscriber
// first receives the current state, then every subsequent update.
func (hm *HubManager) ServeWS(w http.ResponseWriter, r *http.Request, matchID uint) error {
	initial, err := hm.Current(r.Context(), matchID)
	if err != nil {
		return err
	}

	conn, err := hm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := newClient(conn)
	h := hm.attach(matchID)
	client.hub = h

	var f *frame
	if initial != nil {
		f = &frame{version: frameVersion(initial), data: initial}
	}
	h.register <- join{client: client, initial: f}

	go client.writePump()
	go client.readPump()
	return nil
}

// Handler serves GET /ws/matches/:id.
func (hm *HubManager) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			responses.Error(c, http.StatusBadRequest, "Invalid match ID")
			return
		}
		if err := hm.ServeWS(c.Writer, c.Request, uint(id)); err != nil {
			hm.log.Warn("websocket subscribe failed", zap.Uint64("match_id", id), zap.Error(err))
			if !c.Writer.Written() {
				responses.Error(c, http.StatusInternalServerError, "Failed to subscribe: "+err.Error())
			}
		}
	}
}

// Watchers returns the number of spectators of matchID.
func (hm *HubManager) Watchers(matchID uint) int {
	if h := hm.hub(matchID); h != nil {
		return h.ClientCount()
	}
	return 0
}

// RegisterRoutes mounts the spectator endpoint.
func RegisterRoutes(router gin.IRouter, hm *HubManager) {
	router.GET("/ws/matches/:id", hm.Handler())
}
