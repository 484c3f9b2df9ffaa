package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DebugModule exposes expvar and Prometheus metrics, rate-limited per IP.
type DebugModule struct {
	Gatherer prometheus.Gatherer
	Limits   Limits
}

func NewDebugModule(g prometheus.Gatherer, limits Limits) *DebugModule {
	return &DebugModule{Gatherer: g, Limits: limits}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := m.Limits.read()
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	rg.GET("/metrics", rl, gin.WrapH(promhttp.HandlerFor(m.Gatherer, promhttp.HandlerOpts{})))
}
