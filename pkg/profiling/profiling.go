package profiling

import (
	"net/http"
	"net/http/pprof"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

const bytesPerMB = 1024 * 1024

// RegisterPprofRoutes mounts the pprof endpoints on g. The caller decides the
// prefix and which guards sit in front.
func RegisterPprofRoutes(g *echo.Group) {
	g.GET("/", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	g.GET("/cmdline", echo.WrapHandler(http.HandlerFunc(pprof.Cmdline)))
	g.GET("/profile", echo.WrapHandler(http.HandlerFunc(pprof.Profile)))
	g.GET("/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
	g.GET("/trace", echo.WrapHandler(http.HandlerFunc(pprof.Trace)))
	for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
		g.GET("/"+name, echo.WrapHandler(pprof.Handler(name)))
	}
}

// MemoryStats is a point-in-time view of the Go runtime's memory use
type MemoryStats struct {
	AllocMB      float64 `json:"alloc_mb"`
	TotalAllocMB float64 `json:"total_alloc_mb"`
	SysMB        float64 `json:"sys_mb"`
	NumGC        uint32  `json:"num_gc"`
	Goroutines   int     `json:"goroutines"`
	HeapObjects  uint64  `json:"heap_objects"`
	HeapInUseMB  float64 `json:"heap_in_use_mb"`
	Timestamp    string  `json:"timestamp"`
}

func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryStats{
		AllocMB:      float64(m.Alloc) / bytesPerMB,
		TotalAllocMB: float64(m.TotalAlloc) / bytesPerMB,
		SysMB:        float64(m.Sys) / bytesPerMB,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		HeapObjects:  m.HeapObjects,
		HeapInUseMB:  float64(m.HeapInuse) / bytesPerMB,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
}

// MemoryHandler serves GetMemoryStats as JSON
func MemoryHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, GetMemoryStats())
}
