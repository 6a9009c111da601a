package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RefreshData 立即从数据库重新加载 POI 和运营时间
func RefreshData(c *gin.Context) {
	if Refresher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "refresh not available"})
		return
	}
	stats, err := Refresher.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "refresh failed, previous data kept"})
		return
	}
	Logger.Info("manual refresh", "by", c.GetString("username"), "pois", stats.POIs, "warnings", len(stats.Warnings))
	c.JSON(http.StatusOK, stats)
}
