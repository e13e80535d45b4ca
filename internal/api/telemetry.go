package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"FlipSentinel/internal/model"
)

// requireBridgeToken guards the telemetry ingestion endpoints: only the
// bridge client holding the shared token may post.
func (s *Server) requireBridgeToken(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" || token != s.bridgeToken {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
		return
	}
	c.Next()
}

func (s *Server) telemetryStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Status())
}

func (s *Server) telemetrySessions(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot())
}

type heartbeatBody struct {
	AccountHash    string `json:"accountHash"`
	TS             *int64 `json:"ts"`
	PluginVersion  string `json:"pluginVersion"`
	ClientRevision *int   `json:"clientRevision"`
	World          *int   `json:"world"`
}

func (s *Server) telemetryHeartbeat(c *gin.Context) {
	var body heartbeatBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	session, err := s.store.UpsertHeartbeat(model.Heartbeat{
		AccountHash:    body.AccountHash,
		TS:             tsOrNow(body.TS),
		PluginVersion:  body.PluginVersion,
		ClientRevision: body.ClientRevision,
		World:          body.World,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	s.hub.Broadcast("telemetry", gin.H{"session": session})
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": session})
}

type walletBody struct {
	AccountHash    string `json:"accountHash"`
	TS             *int64 `json:"ts"`
	Coins          *int64 `json:"coins"`
	PlatinumTokens *int64 `json:"platinumTokens"`
	CashTotal      *int64 `json:"cashTotal"`
}

func (s *Server) telemetryWallet(c *gin.Context) {
	var body walletBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	var cashTotal int64
	if body.CashTotal != nil {
		cashTotal = *body.CashTotal
	}
	session, err := s.store.UpsertWallet(model.Wallet{
		AccountHash:    body.AccountHash,
		TS:             tsOrNow(body.TS),
		Coins:          body.Coins,
		PlatinumTokens: body.PlatinumTokens,
		CashTotal:      cashTotal,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	s.hub.Broadcast("telemetry", gin.H{"session": session})
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": session})
}

type offersBody struct {
	AccountHash string        `json:"accountHash"`
	TS          *int64        `json:"ts"`
	Offers      []model.Offer `json:"offers"`
}

func (s *Server) telemetryOffers(c *gin.Context) {
	var body offersBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	session, err := s.store.UpsertOffers(body.AccountHash, tsOrNow(body.TS), body.Offers)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	s.hub.Broadcast("telemetry", gin.H{"session": session})
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": session})
}

func tsOrNow(ts *int64) int64 {
	if ts != nil {
		return *ts
	}
	return time.Now().UnixMilli()
}
