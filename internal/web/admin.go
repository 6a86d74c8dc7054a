package web

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const adminCookie = "admin_token"

func equalConstantTime(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !equalConstantTime(token, s.adminToken) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) clientHash(c *gin.Context) string {
	if s.opts.Tracker == nil {
		return ""
	}
	return s.opts.Tracker.HashIP(c.ClientIP())
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		userOK := equalConstantTime(c.PostForm("username"), s.opts.Admin.Username)
		passOK := equalConstantTime(c.PostForm("password"), s.opts.Admin.Password)
		if !userOK || !passOK {
			s.logger.Warn().Str("client", s.clientHash(c)).Msg("failed admin login attempt")
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}

		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", s.opts.SecureCookies, true)
		s.logger.Info().Str("client", s.clientHash(c)).Msg("admin login successful")
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", s.opts.SecureCookies, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuthMiddleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.opts.Store.Stats(c.Request.Context(), s.opts.Clock.Now())
		if err != nil {
			s.logger.Error().Err(err).Msg("error loading admin stats")
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"sessions": s.opts.Sessions.Len(),
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.opts.Store.Stats(c.Request.Context(), s.opts.Clock.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visits, err := s.opts.Store.Visits(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visits": visits})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.opts.Store.Stats(c.Request.Context(), s.opts.Clock.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.logger.Info().Str("client", s.clientHash(c)).Msg("admin stats exported")
		c.JSON(http.StatusOK, stats)
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		if s.opts.Tracker == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "visitor tracking disabled"})
			return
		}
		retention := s.opts.Retention
		if retention <= 0 {
			retention = 365 * 24 * time.Hour
		}
		n, err := s.opts.Tracker.Prune(c.Request.Context(), retention)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clean up visitor data"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "deleted": n})
	})
}
