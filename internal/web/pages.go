package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/folio/internal/content"
)

func (s *Server) setupPageRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		p := s.opts.Content
		c.HTML(http.StatusOK, "index.html", gin.H{
			"site":       p,
			"categories": p.Categories(),
			"selected":   content.AllCategories,
			"projects":   p.Projects,
		})
	})

	// HTMX project filter
	r.GET("/projects", func(c *gin.Context) {
		p := s.opts.Content
		selected := c.DefaultQuery("category", content.AllCategories)
		c.HTML(http.StatusOK, "projects.html", gin.H{
			"categories": p.Categories(),
			"selected":   selected,
			"projects":   p.ProjectsIn(selected),
		})
	})

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":         "Privacy Policy",
			"retentionDays": int(s.opts.Retention.Hours() / 24),
		})
	})
}
