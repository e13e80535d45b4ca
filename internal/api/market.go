package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"FlipSentinel/internal/engine"
)

func (s *Server) marketStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.cache.Status())
}

func (s *Server) marketItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	c.JSON(http.StatusOK, s.cache.Item(id))
}

// recommendations runs the engine against the current cache view with any
// query-parameter overrides merged onto the defaults.
func (s *Server) recommendations(c *gin.Context) {
	ov, err := parseOverrides(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	res := engine.Compute(engine.InputsFromCache(s.cache), ov)
	if s.metrics != nil {
		s.metrics.EngineRuns.Inc()
		s.metrics.EngineDuration.Observe(time.Since(start).Seconds())
	}
	c.JSON(http.StatusOK, res)
}

func qInt64(c *gin.Context, key string, dst **int64) error {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s", key)
	}
	*dst = &n
	return nil
}

func qFloat(c *gin.Context, key string, dst **float64) error {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s", key)
	}
	*dst = &f
	return nil
}

func qInt(c *gin.Context, key string, dst **int) error {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s", key)
	}
	*dst = &n
	return nil
}

func parseOverrides(c *gin.Context) (engine.Overrides, error) {
	var ov engine.Overrides

	int64Fields := map[string]**int64{
		"cash":                   &ov.Cash,
		"taxCap":                 &ov.TaxCap,
		"minThinVol5m":           &ov.MinThinVol5m,
		"minThinVol1h":           &ov.MinThinVol1h,
		"absMinThin5m":           &ov.AbsMinThin5m,
		"absMinThin1h":           &ov.AbsMinThin1h,
		"spreadWideMinThinVol5m": &ov.SpreadWideMinThinVol5m,
		"spreadWideMinThinVol1h": &ov.SpreadWideMinThinVol1h,
	}
	for key, dst := range int64Fields {
		if err := qInt64(c, key, dst); err != nil {
			return engine.Overrides{}, err
		}
	}

	floatFields := map[string]**float64{
		"allocPct":                 &ov.AllocPct,
		"maxPerItemExposure":       &ov.MaxPerItemExposure,
		"minLegMin":                &ov.MinLegMin,
		"maxLegMin":                &ov.MaxLegMin,
		"taxRate":                  &ov.TaxRate,
		"maxSpreadPct":             &ov.MaxSpreadPct,
		"maxSpreadPctHard":         &ov.MaxSpreadPctHard,
		"spreadWideMinVolumeSpike": &ov.SpreadWideMinVolumeSpike,
	}
	for key, dst := range floatFields {
		if err := qFloat(c, key, dst); err != nil {
			return engine.Overrides{}, err
		}
	}

	if err := qInt(c, "topN", &ov.TopN); err != nil {
		return engine.Overrides{}, err
	}
	return ov, nil
}
