package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouterOptions struct {
	IndexHTML      []byte // served at "/" when set
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(h *HTTPHandler, log logrus.FieldLogger, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(log), Recovery(log))

	if opts.IndexHTML != nil {
		index := opts.IndexHTML
		r.GET("/", func(c *gin.Context) {
			c.Data(http.StatusOK, "text/html; charset=utf-8", index)
		})
	}
	r.GET("/healthz", h.HandleHealth)

	api := r.Group("/api", RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	api.GET("/video-info", h.HandleVideoInfo)
	api.GET("/formats", h.HandleFormats)
	api.GET("/download", h.HandleDownload)

	return r
}
