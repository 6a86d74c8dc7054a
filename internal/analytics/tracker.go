package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Hasher turns IP addresses into stable, salted identifiers.
type Hasher struct {
	salt string
}

func NewHasher(salt string) Hasher {
	return Hasher{salt: salt}
}

// RandomHasher uses a per-process salt, so hashes cannot be joined across
// restarts.
func RandomHasher() (Hasher, error) {
	salt, err := RandomToken()
	if err != nil {
		return Hasher{}, err
	}
	return NewHasher(salt), nil
}

// Hash returns the first 16 hex characters of sha256(ip + salt).
func (h Hasher) Hash(ip string) string {
	sum := sha256.Sum256([]byte(ip + h.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// RandomToken returns 32 random bytes hex encoded.
func RandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

var untrackedPrefixes = []string{"/static/", "/images/", "/admin/", "/favicon", "/privacy", "/healthz", "/contact"}

// Tracker records page views in the background. Requests never wait on the
// database; when the queue is full the visit is dropped.
type Tracker struct {
	store  *Store
	hasher Hasher
	clock  clockwork.Clock
	logger zerolog.Logger
	queue  chan Visit
}

func NewTracker(store *Store, hasher Hasher, clock clockwork.Clock, logger zerolog.Logger) *Tracker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Tracker{
		store:  store,
		hasher: hasher,
		clock:  clock,
		logger: logger.With().Str("component", "analytics").Logger(),
		queue:  make(chan Visit, 256),
	}
}

// HashIP hashes ip with the tracker's salt, for logging clients without
// recording their address.
func (t *Tracker) HashIP(ip string) string {
	return t.hasher.Hash(ip)
}

func tracked(path string) bool {
	for _, p := range untrackedPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}

// Middleware enqueues a visit for every tracked GET request. Do Not Track is
// honoured.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || !tracked(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		v := Visit{
			HashedIP:  t.hasher.Hash(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: t.clock.Now(),
		}
		select {
		case t.queue <- v:
		default:
			t.logger.Warn().Str("path", path).Msg("visit queue full, dropping visit")
		}
		c.Next()
	}
}

// Run drains the queue until ctx is done.
func (t *Tracker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case v := <-t.queue:
			if err := t.store.RecordVisit(ctx, v); err != nil {
				t.logger.Error().Err(err).Msg("error recording visitor")
			}
		}
	}
}

// Prune removes visits older than retention.
func (t *Tracker) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := t.store.Cleanup(ctx, t.clock.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		t.logger.Info().Int64("deleted", n).Dur("retention", retention).Msg("privacy cleanup removed old visitor records")
	}
	return n, nil
}

// RunRetention prunes once at start and then daily until ctx is done.
func (t *Tracker) RunRetention(ctx context.Context, retention time.Duration) error {
	ticker := t.clock.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		if _, err := t.Prune(ctx, retention); err != nil && ctx.Err() == nil {
			t.logger.Error().Err(err).Msg("error cleaning up old visitor data")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
		}
	}
}
